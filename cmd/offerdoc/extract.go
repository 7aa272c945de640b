package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/fs"
	"github.com/fwojciec/offerdoc/goquery"
)

// siteURL is the origin used for pages saved without a known URL.
const siteURL = "https://www.chittorgarh.com"

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	kind, err := offerdoc.ParseKind(c.Kind)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.File, err)
	}
	html := string(b)
	url := SourceURL(c.File, html, kind)

	var record any
	switch kind {
	case offerdoc.KindIPO:
		record, err = deps.IPOs.ExtractIPO(html, url)
	case offerdoc.KindNCD:
		record, err = deps.NCDs.ExtractNCD(html, url)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}
	return writeJSON(deps.Stdout, record)
}

// SourceURL returns the URL a saved page was fetched from: the cache
// sidecar URL, then the page's canonical URL, then a URL built from the
// file name, e.g. 2424.html → https://www.chittorgarh.com/ipo/2424/.
func SourceURL(path, html string, kind offerdoc.Kind) string {
	if meta, err := fs.ReadMeta(path); err == nil && meta.URL != "" {
		return meta.URL
	}
	if u := goquery.CanonicalURL(html); u != "" {
		return u
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return siteURL + "/" + kind.PathSegment() + "/" + stem + "/"
}
