//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns script-rendered HTML", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<table id="ipo-details"><tr><td>Face Value</td><td id="fv">Loading...</td></tr></table>
<script>document.getElementById('fv').textContent = '₹10 per share';</script>
</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, "₹10 per share")
		assert.NotContains(t, html, "Loading...")
	})

	t.Run("sends configured user agent and locale", func(t *testing.T) {
		t.Parallel()

		headers := make(chan http.Header, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case headers <- r.Header.Clone():
			default:
			}
			_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher(rod.WithUserAgent("offerdoc-test"))
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)

		got := <-headers
		assert.Equal(t, "offerdoc-test", got.Get("User-Agent"))
		assert.Contains(t, got.Get("Accept-Language"), "en-IN")
	})

	t.Run("times out on slow pages", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
		}))
		defer srv.Close()

		fetcher, err := rod.NewFetcher(rod.WithFetchTimeout(100 * time.Millisecond))
		require.NoError(t, err)
		defer fetcher.Close()

		_, err = fetcher.Fetch(context.Background(), srv.URL)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		defer fetcher.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = fetcher.Fetch(ctx, "http://example.com")

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects fetches after close", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		require.NoError(t, fetcher.Close())

		_, err = fetcher.Fetch(context.Background(), "http://example.com")

		require.Error(t, err)
		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
		assert.Contains(t, offerdoc.ErrorMessage(err), "closed")
	})
}
