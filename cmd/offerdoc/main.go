package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/fs"
	"github.com/fwojciec/offerdoc/goquery"
	"github.com/fwojciec/offerdoc/http"
	"github.com/fwojciec/offerdoc/rod"
	"github.com/fwojciec/offerdoc/scrape"
	offerslog "github.com/fwojciec/offerdoc/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the network fetchers when set. Used by tests.
	Fetcher offerdoc.Fetcher

	// Sitemaps replaces the HTTP sitemap service when set. Used by tests.
	Sitemaps offerdoc.SitemapService

	// Retry delays between fetch attempts.
	RetryDelays []time.Duration

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		RetryDelays: scrape.DefaultRetryDelays(),
	}
}

// Close releases the fetchers opened by Run.
func (m *Main) Close() error {
	var err error
	for _, c := range m.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	m.closers = nil
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("offerdoc"),
		kong.Description("Extract IPO and NCD offer details from chittorgarh.com pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'offerdoc --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.IPOs = offerslog.NewLoggingIPOExtractor(goquery.NewIPOExtractor(), deps.Logger)
	deps.NCDs = offerslog.NewLoggingNCDExtractor(goquery.NewNCDExtractor(), deps.Logger)

	switch kongCtx.Selected().Name {
	case "ipo", "ncd":
		fetcher, err := m.fetcher(cli, deps.Logger)
		if err != nil {
			return err
		}
		defer m.Close()

		deps.Scraper = scrape.NewScraper(fetcher, deps.IPOs, deps.NCDs,
			scrape.WithConcurrency(cli.Concurrency),
			scrape.WithLimiter(scrape.NewDomainLimiter(cli.Rate)),
			scrape.WithRetryDelays(m.RetryDelays),
			scrape.WithLogger(deps.Logger),
		)
	case "discover":
		sitemaps := m.Sitemaps
		if sitemaps == nil {
			sitemaps = http.NewSitemapService(&nethttp.Client{Timeout: cli.Timeout})
		}
		deps.Sitemaps = offerslog.NewLoggingSitemapService(sitemaps, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// fetcher builds the fetch chain: cache, then logging, then the plain
// HTTP fetcher with an optional browser fallback.
func (m *Main) fetcher(cli *CLI, logger *slog.Logger) (offerdoc.Fetcher, error) {
	var f offerdoc.Fetcher = m.Fetcher
	if f == nil {
		f = http.NewFetcher(http.WithTimeout(cli.Timeout))
		if cli.Browser {
			browser, err := rod.NewFetcher(rod.WithFetchTimeout(cli.Timeout))
			if err != nil {
				return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
			}
			f = &scrape.FallbackFetcher{Primary: f, Secondary: browser}
		}
		m.closers = append(m.closers, f)
	}

	f = offerslog.NewLoggingFetcher(f, logger)
	if !cli.NoCache {
		f = fs.NewCache(f, cli.CacheDir)
	}
	return f, nil
}
