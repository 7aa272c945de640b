package offerdoc

// IPOExtractor turns the HTML of an IPO page into an IPO record.
type IPOExtractor interface {
	// ExtractIPO parses html once and returns the record. Missing fields
	// are left empty; only a malformed sourceURL is an error.
	ExtractIPO(html, sourceURL string) (*IPO, error)
}

// NCDExtractor turns the HTML of an NCD page into an NCD record.
type NCDExtractor interface {
	ExtractNCD(html, sourceURL string) (*NCD, error)
}
