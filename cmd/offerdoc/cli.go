package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Scraper  *scrape.Scraper
	IPOs     offerdoc.IPOExtractor
	NCDs     offerdoc.NCDExtractor
	Sitemaps offerdoc.SitemapService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	CacheDir    string        `name:"cache-dir" env:"OFFERDOC_CACHE_DIR" default:"html_temp" help:"Directory for cached pages"`
	NoCache     bool          `name:"no-cache" help:"Always fetch pages from the network"`
	Browser     bool          `help:"Fall back to headless Chrome when a plain request fails"`
	Timeout     time.Duration `env:"OFFERDOC_TIMEOUT" default:"30s" help:"Per-page fetch timeout"`
	Concurrency int           `short:"c" env:"OFFERDOC_CONCURRENCY" default:"4" help:"Pages processed at once"`
	Rate        float64       `env:"OFFERDOC_RATE" default:"1" help:"Requests per second per domain (0 disables limiting)"`
	Verbose     bool          `short:"v" help:"Log every fetch and extraction"`

	IPO      IPOCmd      `cmd:"" name:"ipo" help:"Scrape IPO pages"`
	NCD      NCDCmd      `cmd:"" name:"ncd" help:"Scrape NCD pages"`
	Extract  ExtractCmd  `cmd:"" help:"Extract a record from a saved HTML file"`
	Discover DiscoverCmd `cmd:"" help:"List offer pages from the site's sitemaps"`
}

// IPOCmd is the "ipo" subcommand.
type IPOCmd struct {
	URLs []string `arg:"" name:"url" help:"IPO page URLs"`
}

// NCDCmd is the "ncd" subcommand.
type NCDCmd struct {
	URLs []string `arg:"" name:"url" help:"NCD page URLs"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Kind string `required:"" enum:"ipo,ncd" help:"Page kind (ipo or ncd)"`
	File string `arg:"" type:"existingfile" help:"Saved HTML page"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	BaseURL string `arg:"" name:"base-url" help:"Site root, e.g. https://www.chittorgarh.com"`
	Kind    string `default:"ipo" enum:"ipo,ncd" help:"Page kind (ipo or ncd)"`
}
