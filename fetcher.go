package offerdoc

import "context"

// Fetcher retrieves the raw HTML of an offer page.
type Fetcher interface {
	// Fetch returns the HTML served at url. Failures to reach the page or
	// non-success responses are reported with the EFETCH code.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// DomainLimiter throttles requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}

// DefaultUserAgent is a desktop Chrome user agent. Offer pages are
// served with their full template to browsers only.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// DefaultAcceptLanguage matches the locale of the site's audience.
const DefaultAcceptLanguage = "en-IN,en;q=0.9"
