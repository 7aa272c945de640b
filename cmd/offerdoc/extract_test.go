package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/offerdoc"
	main "github.com/fwojciec/offerdoc/cmd/offerdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceURL(t *testing.T) {
	t.Parallel()

	t.Run("prefers the cache sidecar", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "2480.html")
		meta := `{"url": "https://www.chittorgarh.com/ipo/from-sidecar-ipo/2480/"}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "2480.json"), []byte(meta), 0o644))

		got := main.SourceURL(path, readFixture(t, "ipo.html"), offerdoc.KindIPO)

		assert.Equal(t, "https://www.chittorgarh.com/ipo/from-sidecar-ipo/2480/", got)
	})

	t.Run("falls back to the canonical URL", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "saved.html")

		got := main.SourceURL(path, readFixture(t, "ipo.html"), offerdoc.KindIPO)

		assert.Equal(t, "https://www.chittorgarh.com/ipo/acme-pipes-ipo/2480/", got)
	})

	t.Run("builds a URL from the file name", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "512.html")

		got := main.SourceURL(path, "<html><body></body></html>", offerdoc.KindNCD)

		assert.Equal(t, "https://www.chittorgarh.com/bond/512/", got)
	})
}

func TestExtractCmd(t *testing.T) {
	t.Parallel()

	t.Run("extracts an IPO record from a saved page", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(),
			[]string{"extract", "--kind", "ipo", filepath.Join("..", "..", "goquery", "testdata", "ipo.html")},
			stdout, &bytes.Buffer{})
		require.NoError(t, err)

		var ipo offerdoc.IPO
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &ipo))
		assert.Equal(t, "Acme Pipes Ltd. IPO", ipo.Name)
		assert.Equal(t, 2480, ipo.ExternalID)
	})

	t.Run("extracts an NCD record using the file name", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "512.html")
		require.NoError(t, os.WriteFile(path, []byte("<html><body><h1>Beta Capital NCD</h1></body></html>"), 0o644))

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"extract", "--kind", "ncd", path}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		var ncd offerdoc.NCD
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &ncd))
		assert.Equal(t, "512", ncd.Slug)
		assert.Equal(t, "Beta Capital NCD", ncd.IssueName)
	})
}
