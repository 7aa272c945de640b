// Package scrape drives fetching and extraction of offer pages, one at
// a time or in concurrent batches.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/offerdoc"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once in a batch.
const DefaultConcurrency = 4

// Scraper fetches offer pages and turns them into records. Scraper is
// safe for concurrent use when its collaborators are.
type Scraper struct {
	fetcher     offerdoc.Fetcher
	ipo         offerdoc.IPOExtractor
	ncd         offerdoc.NCDExtractor
	limiter     offerdoc.DomainLimiter
	concurrency int
	retryDelays []time.Duration
	logger      *slog.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithConcurrency sets the number of pages processed at once in a batch.
func WithConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRetryDelays sets the delays between fetch attempts. An empty slice
// disables retries.
func WithRetryDelays(delays []time.Duration) Option {
	return func(s *Scraper) {
		s.retryDelays = delays
	}
}

// WithLimiter throttles fetches per domain.
func WithLimiter(l offerdoc.DomainLimiter) Option {
	return func(s *Scraper) {
		s.limiter = l
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) {
		s.logger = l
	}
}

// NewScraper creates a Scraper over the given collaborators.
func NewScraper(fetcher offerdoc.Fetcher, ipo offerdoc.IPOExtractor, ncd offerdoc.NCDExtractor, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:     fetcher,
		ipo:         ipo,
		ncd:         ncd,
		concurrency: DefaultConcurrency,
		retryDelays: DefaultRetryDelays(),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeIPO fetches the IPO page at url and extracts its record.
func (s *Scraper) ScrapeIPO(ctx context.Context, url string) (*offerdoc.IPO, error) {
	html, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.ipo.ExtractIPO(html, url)
}

// ScrapeNCD fetches the NCD page at url and extracts its record.
func (s *Scraper) ScrapeNCD(ctx context.Context, url string) (*offerdoc.NCD, error) {
	html, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.ncd.ExtractNCD(html, url)
}

// BatchIPO scrapes every URL and returns one result per URL in input
// order. A failing URL yields an error entry and never aborts the batch.
func (s *Scraper) BatchIPO(ctx context.Context, urls []string) []offerdoc.Result[offerdoc.IPO] {
	return batch(ctx, urls, s.concurrency, s.ScrapeIPO)
}

// BatchNCD is the NCD counterpart of BatchIPO.
func (s *Scraper) BatchNCD(ctx context.Context, urls []string) []offerdoc.Result[offerdoc.NCD] {
	return batch(ctx, urls, s.concurrency, s.ScrapeNCD)
}

func (s *Scraper) fetch(ctx context.Context, url string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, Domain(url)); err != nil {
			return "", err
		}
	}
	onRetry := func(url string, attempt int, err error) {
		s.logger.Warn("retry", "url", url, "attempt", attempt, "err", err)
	}
	return FetchWithRetry(ctx, url, s.fetcher.Fetch, s.retryDelays, onRetry)
}

// batch runs scrape over urls with at most concurrency calls in flight.
// Each goroutine writes only its own slot.
func batch[T any](ctx context.Context, urls []string, concurrency int, scrape func(context.Context, string) (*T, error)) []offerdoc.Result[T] {
	results := make([]offerdoc.Result[T], len(urls))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, url := range urls {
		g.Go(func() error {
			results[i] = result(ctx, url, scrape)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func result[T any](ctx context.Context, url string, scrape func(context.Context, string) (*T, error)) offerdoc.Result[T] {
	if err := ctx.Err(); err != nil {
		return offerdoc.Result[T]{URL: url, Error: message(err)}
	}
	data, err := scrape(ctx, url)
	if err != nil {
		return offerdoc.Result[T]{URL: url, Error: message(err)}
	}
	return offerdoc.Result[T]{URL: url, Data: data}
}

// message labels err with its code so an error entry is never blank.
func message(err error) string {
	if msg := offerdoc.ErrorMessage(err); msg != "" {
		return msg
	}
	return offerdoc.ErrorCode(err) + " error"
}
