package scrape_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/mock"
	"github.com/fwojciec/offerdoc/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetcher(html string, err error) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return html, err
		},
		CloseFn: func() error { return nil },
	}
}

func TestFallbackFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("uses primary when it succeeds", func(t *testing.T) {
		t.Parallel()

		f := &scrape.FallbackFetcher{
			Primary:   staticFetcher("primary", nil),
			Secondary: staticFetcher("secondary", nil),
		}

		html, err := f.Fetch(context.Background(), "https://example.com/1/")

		require.NoError(t, err)
		assert.Equal(t, "primary", html)
	})

	t.Run("falls back to secondary on fetch error", func(t *testing.T) {
		t.Parallel()

		f := &scrape.FallbackFetcher{
			Primary:   staticFetcher("", offerdoc.Errorf(offerdoc.EFETCH, "HTTP 403")),
			Secondary: staticFetcher("secondary", nil),
		}

		html, err := f.Fetch(context.Background(), "https://example.com/1/")

		require.NoError(t, err)
		assert.Equal(t, "secondary", html)
	})

	t.Run("reports secondary error when both fail", func(t *testing.T) {
		t.Parallel()

		f := &scrape.FallbackFetcher{
			Primary:   staticFetcher("", offerdoc.Errorf(offerdoc.EFETCH, "HTTP 403")),
			Secondary: staticFetcher("", offerdoc.Errorf(offerdoc.EFETCH, "navigation failed")),
		}

		_, err := f.Fetch(context.Background(), "https://example.com/1/")

		assert.Equal(t, "navigation failed", offerdoc.ErrorMessage(err))
	})

	t.Run("does not fall back on invalid input", func(t *testing.T) {
		t.Parallel()

		f := &scrape.FallbackFetcher{
			Primary:   staticFetcher("", offerdoc.Errorf(offerdoc.EINVALID, "invalid url")),
			Secondary: staticFetcher("secondary", nil),
		}

		_, err := f.Fetch(context.Background(), "::")

		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
	})
}

func TestFallbackFetcher_Close(t *testing.T) {
	t.Parallel()

	closed := 0
	closer := func() error {
		closed++
		return nil
	}
	failing := errors.New("browser gone")
	f := &scrape.FallbackFetcher{
		Primary:   &mock.Fetcher{CloseFn: closer},
		Secondary: &mock.Fetcher{CloseFn: func() error { return failing }},
	}

	err := f.Close()

	assert.ErrorIs(t, err, failing)
	assert.Equal(t, 1, closed)
}
