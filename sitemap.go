package offerdoc

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs from a site's sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the URLs listed in the sitemaps of baseURL.
	// robots.txt Sitemap directives are consulted first, then
	// /sitemap.xml. Sitemap indexes are followed. A nil filter keeps
	// every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter keeps URLs matching any Include pattern and no Exclude
// pattern. An empty Include list keeps everything.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match reports whether url passes the filter. A nil filter passes
// every URL.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// OfferFilter returns a filter that keeps detail pages of the given kind,
// such as /ipo/<slug>/<id>/ or /bond/<slug>/<id>/.
func OfferFilter(kind Kind) *URLFilter {
	seg := regexp.QuoteMeta(kind.PathSegment())
	return &URLFilter{
		Include: []*regexp.Regexp{
			regexp.MustCompile(`/` + seg + `/[^/]+/\d+/?$`),
		},
	}
}
