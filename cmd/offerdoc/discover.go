package main

import (
	"fmt"

	"github.com/fwojciec/offerdoc"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	kind, err := offerdoc.ParseKind(c.Kind)
	if err != nil {
		return err
	}

	urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.BaseURL, offerdoc.OfferFilter(kind))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", offerdoc.ErrorMessage(err))
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintf(deps.Stderr, "No %s pages found in the sitemaps of %s.\n", kind, c.BaseURL)
		return nil
	}
	for _, u := range urls {
		fmt.Fprintln(deps.Stdout, u)
	}
	return nil
}
