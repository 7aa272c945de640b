package scrape

import (
	"context"
	"errors"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Fetcher = (*FallbackFetcher)(nil)

// FallbackFetcher tries Primary and, when it fails, Secondary. It pairs
// the plain HTTP fetcher with the browser fetcher for pages that refuse
// non-browser clients.
type FallbackFetcher struct {
	Primary   offerdoc.Fetcher
	Secondary offerdoc.Fetcher
}

// Fetch returns the first successful result. Context errors and
// EINVALID errors are not retried with Secondary.
func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (string, error) {
	html, err := f.Primary.Fetch(ctx, url)
	if err == nil {
		return html, nil
	}
	if ctx.Err() != nil || offerdoc.ErrorCode(err) == offerdoc.EINVALID {
		return "", err
	}

	html, err2 := f.Secondary.Fetch(ctx, url)
	if err2 != nil {
		return "", err2
	}
	return html, nil
}

// Close closes both fetchers.
func (f *FallbackFetcher) Close() error {
	return errors.Join(f.Primary.Close(), f.Secondary.Close())
}
