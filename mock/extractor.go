package mock

import "github.com/fwojciec/offerdoc"

var _ offerdoc.IPOExtractor = (*IPOExtractor)(nil)

// IPOExtractor is a mock implementation of offerdoc.IPOExtractor.
type IPOExtractor struct {
	ExtractIPOFn func(html, sourceURL string) (*offerdoc.IPO, error)
}

func (e *IPOExtractor) ExtractIPO(html, sourceURL string) (*offerdoc.IPO, error) {
	return e.ExtractIPOFn(html, sourceURL)
}

var _ offerdoc.NCDExtractor = (*NCDExtractor)(nil)

// NCDExtractor is a mock implementation of offerdoc.NCDExtractor.
type NCDExtractor struct {
	ExtractNCDFn func(html, sourceURL string) (*offerdoc.NCD, error)
}

func (e *NCDExtractor) ExtractNCD(html, sourceURL string) (*offerdoc.NCD, error) {
	return e.ExtractNCDFn(html, sourceURL)
}
