package mock

import "github.com/fwojciec/newsarc"

var _ newsarc.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of newsarc.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML, url string) (*newsarc.Extraction, error)
}

func (e *Extractor) Extract(rawHTML, url string) (*newsarc.Extraction, error) {
	return e.ExtractFn(rawHTML, url)
}
