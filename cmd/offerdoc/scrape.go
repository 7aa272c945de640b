package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/offerdoc"
)

// Run executes the ipo command.
func (c *IPOCmd) Run(deps *Dependencies) error {
	return printResults(deps, deps.Scraper.BatchIPO(deps.Ctx, c.URLs))
}

// Run executes the ncd command.
func (c *NCDCmd) Run(deps *Dependencies) error {
	return printResults(deps, deps.Scraper.BatchNCD(deps.Ctx, c.URLs))
}

// printResults prints the record of a single URL, or the whole result
// array when several URLs were given. Failed entries of a batch stay in
// the array and do not fail the command.
func printResults[T any](deps *Dependencies, results []offerdoc.Result[T]) error {
	if len(results) != 1 {
		return writeJSON(deps.Stdout, results)
	}

	r := results[0]
	if !r.OK() {
		fmt.Fprintf(deps.Stderr, "error: %s\n", r.Error)
		return fmt.Errorf("scraping %s: %s", r.URL, r.Error)
	}
	return writeJSON(deps.Stdout, r.Data)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
