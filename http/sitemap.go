package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/offerdoc"
)

// Ensure SitemapService implements offerdoc.SitemapService.
var _ offerdoc.SitemapService = (*SitemapService)(nil)

// SitemapService discovers offer page URLs from a site's sitemaps.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: offerdoc.DefaultUserAgent}
}

// DiscoverURLs returns the page URLs listed in the sitemaps of baseURL,
// deduplicated in discovery order. Returns an empty slice (not nil) if
// no sitemaps are found.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *offerdoc.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "invalid base URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.sitemapURLs(ctx, root)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenURLs := make(map[string]bool)
	seenSitemaps := make(map[string]bool)
	for _, sitemapURL := range sitemaps {
		locs, err := s.process(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range locs {
			if seenURLs[u] || !filter.Match(u) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// sitemapURLs reads Sitemap directives from robots.txt, falling back to
// /sitemap.xml when robots.txt is missing or names none.
func (s *SitemapService) sitemapURLs(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	sitemaps, err := s.robots(ctx, robots)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}
	return []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}, nil
}

func (s *SitemapService) robots(ctx context.Context, robotsURL string) ([]string, error) {
	resp, err := get(ctx, s.client, robotsURL, s.userAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			sitemaps = append(sitemaps, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "reading %s: %v", robotsURL, err)
	}
	return sitemaps, nil
}

// process returns the page URLs of one sitemap, following sitemap
// indexes. A sitemap that cannot be fetched contributes nothing.
func (s *SitemapService) process(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	resp, err := get(ctx, s.client, sitemapURL, s.userAgent)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if strings.HasSuffix(sitemapURL, ".gz") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, offerdoc.Errorf(offerdoc.EINVALID, "decompressing %s: %v", sitemapURL, err)
		}
		defer zr.Close()
		body = zr
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag != "sitemapindex" {
		return locs(root, "url"), nil
	}

	var urls []string
	for _, child := range locs(root, "sitemap") {
		childURLs, err := s.process(ctx, child, seen)
		if err != nil {
			return nil, err
		}
		urls = append(urls, childURLs...)
	}
	return urls, nil
}

// locs returns the non-empty <loc> values of root's children named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}
