// Package fs stores fetched offer pages on disk.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/offerdoc"
)

// Ensure Cache implements offerdoc.Fetcher at compile time.
var _ offerdoc.Fetcher = (*Cache)(nil)

// Meta is the JSON sidecar written next to every cached page.
type Meta struct {
	URL           string    `json:"url"`
	SavedAt       time.Time `json:"saved_at"`
	ContentLength int       `json:"content_length"`
	ContentHash   string    `json:"content_hash"`
}

// Cache is a Fetcher decorator that keeps every fetched page under dir.
// A page already on disk is served without calling the wrapped fetcher.
//
// Pages are stored as <dir>/<section>/<key>.html with a <key>.json Meta
// sidecar, where section is the first path segment of the URL and key
// is its numeric final segment. Cache is safe for concurrent use.
type Cache struct {
	next offerdoc.Fetcher
	dir  string
	now  func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock sets the clock used for Meta.SavedAt.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache wraps next with an on-disk cache rooted at dir.
func NewCache(next offerdoc.Fetcher, dir string, opts ...CacheOption) *Cache {
	c := &Cache{next: next, dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached page for url, fetching and storing it first
// if it is not on disk yet.
func (c *Cache) Fetch(ctx context.Context, url string) (string, error) {
	key, err := Key(url)
	if err != nil {
		return "", err
	}
	path := filepath.Join(c.dir, key+".html")

	if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
		return string(b), nil
	}

	html, err := c.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	meta := Meta{
		URL:           url,
		SavedAt:       c.now().UTC(),
		ContentLength: len(html),
		ContentHash:   ContentHash(html),
	}
	if err := write(path, html, meta); err != nil {
		return "", offerdoc.Errorf(offerdoc.EINTERNAL, "caching %s: %v", url, err)
	}
	return html, nil
}

// Close closes the wrapped fetcher.
func (c *Cache) Close() error {
	return c.next.Close()
}

// Path returns the file a page for url is cached at.
func (c *Cache) Path(url string) (string, error) {
	key, err := Key(url)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.dir, key+".html"), nil
}

// Key returns the cache key of rawURL relative to the cache directory.
// https://www.chittorgarh.com/ipo/acme-ipo/2424/ → ipo/2424
//
// URLs not ending in a numeric segment are keyed by the xxhash of the
// whole URL. Keys that would resolve outside the cache directory are
// rejected as EINVALID.
func Key(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", offerdoc.Errorf(offerdoc.EINVALID, "invalid url %q", rawURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	name := fmt.Sprintf("%016x", xxhash.Sum64String(u.String()))
	if _, err := strconv.ParseUint(last, 10, 64); err == nil {
		name = last
	}
	key := name
	if len(segments) > 1 {
		key = segments[0] + "/" + name
	}
	if !filepath.IsLocal(key) {
		return "", offerdoc.Errorf(offerdoc.EINVALID, "url %q escapes the cache directory", rawURL)
	}
	return key, nil
}

// ContentHash returns the hex xxhash of html.
func ContentHash(html string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(html))
}

// ReadMeta reads the sidecar of a cached page. htmlPath is the path of
// the .html file. A missing sidecar is reported as ENOTFOUND.
func ReadMeta(htmlPath string) (*Meta, error) {
	path := strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".json"
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, offerdoc.Errorf(offerdoc.ENOTFOUND, "no metadata for %s", htmlPath)
	} else if err != nil {
		return nil, err
	}

	var meta Meta
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, offerdoc.Errorf(offerdoc.EINVALID, "decoding %s: %v", path, err)
	}
	return &meta, nil
}

// write stores html and its sidecar. Each file is renamed into place so
// concurrent readers never see a partial page.
func write(htmlPath, html string, meta Meta) error {
	if err := os.MkdirAll(filepath.Dir(htmlPath), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	metaPath := strings.TrimSuffix(htmlPath, ".html") + ".json"
	if err := writeFile(metaPath, b); err != nil {
		return err
	}
	return writeFile(htmlPath, []byte(html))
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
