package scrape_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/mock"
	"github.com/fwojciec/offerdoc/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	acmeURL  = "https://www.chittorgarh.com/ipo/acme-pipes-ipo/2424/"
	betaURL  = "https://www.chittorgarh.com/ipo/beta-steel-ipo/2425/"
	gammaURL = "https://www.chittorgarh.com/ipo/gamma-foods-ipo/2426/"
	bondURL  = "https://www.chittorgarh.com/bond/acme-finance-ncd/155/"
)

// pageFetcher serves "<h1>URL</h1>" for every URL except those in fail.
func pageFetcher(fail ...string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			for _, f := range fail {
				if url == f {
					return "", offerdoc.Errorf(offerdoc.EFETCH, "HTTP 503 for %s", url)
				}
			}
			return "<h1>" + url + "</h1>", nil
		},
		CloseFn: func() error { return nil },
	}
}

func headingIPOs() *mock.IPOExtractor {
	return &mock.IPOExtractor{
		ExtractIPOFn: func(html, sourceURL string) (*offerdoc.IPO, error) {
			return &offerdoc.IPO{
				Name: strings.TrimSuffix(strings.TrimPrefix(html, "<h1>"), "</h1>"),
				Slug: sourceURL,
			}, nil
		},
	}
}

func headingNCDs() *mock.NCDExtractor {
	return &mock.NCDExtractor{
		ExtractNCDFn: func(html, sourceURL string) (*offerdoc.NCD, error) {
			return &offerdoc.NCD{Slug: sourceURL}, nil
		},
	}
}

func TestScraper_BatchIPO(t *testing.T) {
	t.Parallel()

	t.Run("isolates a failing URL and keeps input order", func(t *testing.T) {
		t.Parallel()

		s := scrape.NewScraper(pageFetcher(betaURL), headingIPOs(), headingNCDs(),
			scrape.WithRetryDelays(nil))

		results := s.BatchIPO(context.Background(), []string{acmeURL, betaURL, gammaURL})

		require.Len(t, results, 3)
		assert.Equal(t, acmeURL, results[0].URL)
		require.True(t, results[0].OK())
		assert.Equal(t, acmeURL, results[0].Data.Name)

		assert.Equal(t, betaURL, results[1].URL)
		assert.False(t, results[1].OK())
		assert.Nil(t, results[1].Data)
		assert.Equal(t, "HTTP 503 for "+betaURL, results[1].Error)

		assert.Equal(t, gammaURL, results[2].URL)
		require.True(t, results[2].OK())
		assert.Equal(t, gammaURL, results[2].Data.Slug)
	})

	t.Run("reports extraction failures per slot", func(t *testing.T) {
		t.Parallel()

		ipos := &mock.IPOExtractor{
			ExtractIPOFn: func(_, sourceURL string) (*offerdoc.IPO, error) {
				return nil, offerdoc.Errorf(offerdoc.EINVALID, "no numeric id in %s", sourceURL)
			},
		}
		s := scrape.NewScraper(pageFetcher(), ipos, headingNCDs(), scrape.WithRetryDelays(nil))

		results := s.BatchIPO(context.Background(), []string{"https://www.chittorgarh.com/ipo/acme/"})

		require.Len(t, results, 1)
		assert.Equal(t, "no numeric id in https://www.chittorgarh.com/ipo/acme/", results[0].Error)
	})

	t.Run("returns empty results for no URLs", func(t *testing.T) {
		t.Parallel()

		s := scrape.NewScraper(pageFetcher(), headingIPOs(), headingNCDs())

		assert.Empty(t, s.BatchIPO(context.Background(), nil))
	})

	t.Run("limits concurrent fetches", func(t *testing.T) {
		t.Parallel()

		var inFlight, peak atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				return "<h1>" + url + "</h1>", nil
			},
		}
		s := scrape.NewScraper(fetcher, headingIPOs(), headingNCDs(), scrape.WithConcurrency(2))

		urls := []string{acmeURL, betaURL, gammaURL, acmeURL, betaURL, gammaURL}
		results := s.BatchIPO(context.Background(), urls)

		require.Len(t, results, len(urls))
		for i, r := range results {
			assert.True(t, r.OK())
			assert.Equal(t, urls[i], r.URL)
		}
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("fills every slot when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := scrape.NewScraper(pageFetcher(), headingIPOs(), headingNCDs())

		results := s.BatchIPO(ctx, []string{acmeURL, betaURL})

		require.Len(t, results, 2)
		for _, r := range results {
			assert.Nil(t, r.Data)
			assert.Equal(t, context.Canceled.Error(), r.Error)
		}
	})
}

func TestScraper_BatchNCD(t *testing.T) {
	t.Parallel()

	s := scrape.NewScraper(pageFetcher(), headingIPOs(), headingNCDs())

	results := s.BatchNCD(context.Background(), []string{bondURL})

	require.Len(t, results, 1)
	require.True(t, results[0].OK())
	assert.Equal(t, bondURL, results[0].Data.Slug)
}

func TestScraper_ScrapeIPO(t *testing.T) {
	t.Parallel()

	t.Run("retries transient fetch failures", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				if calls.Add(1) == 1 {
					return "", offerdoc.Errorf(offerdoc.EFETCH, "HTTP 503 for %s", url)
				}
				return "<h1>Acme Pipes IPO</h1>", nil
			},
		}
		s := scrape.NewScraper(fetcher, headingIPOs(), headingNCDs(),
			scrape.WithRetryDelays([]time.Duration{time.Millisecond}))

		ipo, err := s.ScrapeIPO(context.Background(), acmeURL)

		require.NoError(t, err)
		assert.Equal(t, "Acme Pipes IPO", ipo.Name)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("waits on the domain limiter", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var domains []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				mu.Lock()
				defer mu.Unlock()
				domains = append(domains, domain)
				return nil
			},
		}
		s := scrape.NewScraper(pageFetcher(), headingIPOs(), headingNCDs(), scrape.WithLimiter(limiter))

		_, err := s.ScrapeIPO(context.Background(), acmeURL)

		require.NoError(t, err)
		assert.Equal(t, []string{"chittorgarh.com"}, domains)
	})

	t.Run("returns limiter error without fetching", func(t *testing.T) {
		t.Parallel()

		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, _ string) error { return context.DeadlineExceeded },
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				t.Fatal("fetch should not be called")
				return "", nil
			},
		}
		s := scrape.NewScraper(fetcher, headingIPOs(), headingNCDs(), scrape.WithLimiter(limiter))

		_, err := s.ScrapeIPO(context.Background(), acmeURL)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
