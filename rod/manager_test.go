//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Page(t *testing.T) {
	t.Parallel()

	t.Run("relaunches browser after max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.LauncherPID()
		page, err := manager.Page(offerdoc.DefaultUserAgent)
		require.NoError(t, err)
		_ = page.Close()

		page, err = manager.Page(offerdoc.DefaultUserAgent)
		require.NoError(t, err)
		_ = page.Close()

		assert.NotEqual(t, first, manager.LauncherPID())
	})

	t.Run("keeps browser below max pages", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(5))
		require.NoError(t, err)
		defer manager.Close()

		first := manager.LauncherPID()
		for range 3 {
			page, err := manager.Page(offerdoc.DefaultUserAgent)
			require.NoError(t, err)
			_ = page.Close()
		}

		assert.Equal(t, first, manager.LauncherPID())
	})

	t.Run("rejects pages after close", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		require.NoError(t, manager.Close())
		require.NoError(t, manager.Close())

		_, err = manager.Page(offerdoc.DefaultUserAgent)
		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
		assert.Zero(t, manager.LauncherPID())
	})
}
