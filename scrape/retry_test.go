package scrape_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortDelays = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			if calls < 3 {
				return "", offerdoc.Errorf(offerdoc.EFETCH, "HTTP 503")
			}
			return "<html></html>", nil
		}

		var attempts []int
		onRetry := func(_ string, attempt int, _ error) { attempts = append(attempts, attempt) }

		html, err := scrape.FetchWithRetry(context.Background(), "https://example.com/1/", fetch, shortDelays, onRetry)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, attempts)
	})

	t.Run("gives up after one attempt per delay plus one", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", offerdoc.Errorf(offerdoc.EFETCH, "HTTP 503 attempt %d", calls)
		}

		_, err := scrape.FetchWithRetry(context.Background(), "https://example.com/1/", fetch, shortDelays, nil)

		assert.Equal(t, 4, calls)
		assert.Equal(t, "HTTP 503 attempt 4", offerdoc.ErrorMessage(err))
	})

	t.Run("does not retry invalid input", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", offerdoc.Errorf(offerdoc.EINVALID, "invalid url")
		}

		_, err := scrape.FetchWithRetry(context.Background(), "::", fetch, shortDelays, nil)

		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("makes a single attempt without delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(_ context.Context, _ string) (string, error) {
			calls++
			return "", errors.New("boom")
		}

		_, err := scrape.FetchWithRetry(context.Background(), "https://example.com/1/", fetch, nil, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(_ context.Context, _ string) (string, error) {
			cancel()
			return "", errors.New("boom")
		}

		_, err := scrape.FetchWithRetry(ctx, "https://example.com/1/", fetch, []time.Duration{time.Hour}, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}
