package mock

import (
	"context"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of offerdoc.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *offerdoc.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *offerdoc.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
