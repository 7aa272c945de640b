package offerdoc_test

import (
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	t.Parallel()

	t.Run("parses slug and numeric id of an ipo page", func(t *testing.T) {
		t.Parallel()

		id, err := offerdoc.ParseIdentity("https://www.chittorgarh.com/ipo/bharat-coking-coal-ipo/2424/", offerdoc.KindIPO)

		require.NoError(t, err)
		assert.Equal(t, 2424, id.ID)
		assert.Equal(t, "bharat-coking-coal-ipo", id.Slug)
	})

	t.Run("accepts a url without trailing slash", func(t *testing.T) {
		t.Parallel()

		id, err := offerdoc.ParseIdentity("https://www.chittorgarh.com/ipo/acme-ipo/17", offerdoc.KindIPO)

		require.NoError(t, err)
		assert.Equal(t, 17, id.ID)
	})

	t.Run("rejects an ipo url without numeric id", func(t *testing.T) {
		t.Parallel()

		_, err := offerdoc.ParseIdentity("https://www.chittorgarh.com/ipo/acme-ipo/", offerdoc.KindIPO)

		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
	})

	t.Run("rejects a url outside the kind segment", func(t *testing.T) {
		t.Parallel()

		_, err := offerdoc.ParseIdentity("https://www.chittorgarh.com/news/1/", offerdoc.KindIPO)

		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
	})

	t.Run("ncd pages need only the slug", func(t *testing.T) {
		t.Parallel()

		id, err := offerdoc.ParseIdentity("https://www.chittorgarh.com/bond/muthoot-fincorp-ncd-jan-2026/", offerdoc.KindNCD)

		require.NoError(t, err)
		assert.Equal(t, "muthoot-fincorp-ncd-jan-2026", id.Slug)
		assert.Zero(t, id.ID)
	})
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	k, err := offerdoc.ParseKind(" NCD ")
	require.NoError(t, err)
	assert.Equal(t, offerdoc.KindNCD, k)
	assert.Equal(t, "bond", k.PathSegment())

	_, err = offerdoc.ParseKind("reit")
	assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
}
