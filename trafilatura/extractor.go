// Package trafilatura implements newsarc.Extractor on top of
// go-trafilatura, with goquery fallbacks for metadata the main extractor
// misses.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsarc"
	"github.com/markusmobius/go-trafilatura"
)

// DefaultMinTextLength is the quality-gate threshold. Bodies shorter than
// this are paywall block pages, consent walls, or render failures, not
// articles.
const DefaultMinTextLength = 100

// Ensure Extractor implements newsarc.Extractor at compile time.
var _ newsarc.Extractor = (*Extractor)(nil)

// Extractor extracts normalized article content from rendered HTML and
// enforces the minimum-text quality gate.
type Extractor struct {
	minTextLength int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinTextLength sets the quality-gate threshold.
// Defaults to DefaultMinTextLength.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minTextLength = n
		}
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{minTextLength: DefaultMinTextLength}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawHTML fetched from pageURL. A fetch that rendered fine
// but yields less than the minimum body text returns an ELOWQUALITY error:
// transport success is not content success.
func (e *Extractor) Extract(rawHTML, pageURL string) (*newsarc.Extraction, error) {
	if rawHTML == "" {
		return nil, newsarc.Errorf(newsarc.EINVALID, "empty HTML input for %s", pageURL)
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if parsed, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = parsed
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, newsarc.Errorf(newsarc.ELOWQUALITY, "no article content extracted from %s: %v", pageURL, err)
	}

	text := strings.TrimSpace(result.ContentText)
	if len(text) < e.minTextLength {
		return nil, newsarc.Errorf(newsarc.ELOWQUALITY,
			"extracted text from %s is %d chars, below minimum %d", pageURL, len(text), e.minTextLength)
	}

	extraction := &newsarc.Extraction{
		Title:    result.Metadata.Title,
		Text:     text,
		Authors:  splitAuthors(result.Metadata.Author),
		TopImage: result.Metadata.Image,
	}
	if !result.Metadata.Date.IsZero() {
		date := result.Metadata.Date.UTC()
		extraction.PublishDate = &date
	}

	e.fillFromMeta(extraction, rawHTML)
	return extraction, nil
}

// fillFromMeta backfills title and lead image from document metadata when
// trafilatura's own metadata came up empty.
func (e *Extractor) fillFromMeta(extraction *newsarc.Extraction, rawHTML string) {
	if extraction.Title != "" && extraction.TopImage != "" {
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return
	}

	if extraction.Title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
			extraction.Title = og
		} else {
			extraction.Title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}
	if extraction.TopImage == "" {
		if og, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
			extraction.TopImage = og
		}
	}
}

// splitAuthors splits trafilatura's single author string ("A; B") into an
// ordered slice.
func splitAuthors(author string) []string {
	if author == "" {
		return nil
	}
	parts := strings.Split(author, ";")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}
