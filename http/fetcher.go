// Package http fetches offer pages and sitemaps over plain HTTP.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/offerdoc"
)

// DefaultFetchTimeout bounds a single page request.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements offerdoc.Fetcher at compile time.
var _ offerdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves offer pages with browser-like request headers. It
// does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides offerdoc.DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: offerdoc.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML served at url. Transport failures and
// non-200 responses are returned as EFETCH errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := get(ctx, f.client, url, f.userAgent)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", offerdoc.Errorf(offerdoc.EFETCH, "reading %s: %v", url, err)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// get issues a GET request with browser-like headers and returns the
// response when its status is 200.
func get(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "invalid url %q: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", offerdoc.DefaultAcceptLanguage)
	req.Header.Set("Referer", "https://www.google.com/")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "fetching %s: %v", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, offerdoc.Errorf(offerdoc.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}
	return resp, nil
}
