package newsarc

import (
	"context"
	"time"
)

// ArticleRecord is the normalized outcome of scraping a single article URL.
// Exactly one record per URL is retained as the current outcome; re-scraping
// overwrites rather than appending duplicates.
type ArticleRecord struct {
	URL         string     `json:"url"`
	Success     bool       `json:"success"`
	Title       string     `json:"title,omitempty"`
	Text        string     `json:"text,omitempty"`
	Authors     []string   `json:"authors,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	TextLength  int        `json:"text_length"`
	ScrapedAt   time.Time  `json:"scraped_at"`
	TopImage    string     `json:"top_image,omitempty"`

	// ErrorKind and ErrorDetail are set iff Success is false.
	ErrorKind   string `json:"error_kind,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ArticleRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "article record URL required")
	}
	if !r.Success && r.ErrorKind == "" {
		return Errorf(EINVALID, "failed article record requires an error kind")
	}
	return nil
}

// FailedRecord builds the failure outcome for url from a classified error.
func FailedRecord(url string, err error) *ArticleRecord {
	return &ArticleRecord{
		URL:         url,
		Success:     false,
		ScrapedAt:   time.Now().UTC(),
		ErrorKind:   ErrorCode(err),
		ErrorDetail: ErrorMessage(err),
	}
}

// RenderClient fetches rendered article HTML from the external rendering
// backend. Implementations retain no state between calls; timeouts are
// carried on the context. Errors are classified with the application error
// codes so callers can decide between retrying, recording a failure, and
// aborting the run.
type RenderClient interface {
	// Health verifies the backend is reachable and its browser is ready.
	// Returns an EUNAVAILABLE error otherwise.
	Health(ctx context.Context) error

	// Render navigates the backend to url and returns the rendered HTML.
	Render(ctx context.Context, url string) (html string, err error)
}

// Extraction holds the structured content pulled out of rendered HTML.
type Extraction struct {
	Title       string
	Text        string
	Authors     []string
	PublishDate *time.Time
	TopImage    string
}

// Extractor normalizes raw rendered HTML into article content and enforces
// the content quality gate: transport success is not content success.
type Extractor interface {
	// Extract parses rawHTML fetched from url. When the extracted body text
	// is shorter than the configured minimum the error carries ELOWQUALITY,
	// distinguishing a paywall block page or consent wall from a real
	// article even though the fetch itself succeeded.
	Extract(rawHTML, url string) (*Extraction, error)
}

// ResultWriter persists article records. Write must be safe to call
// concurrently from multiple workers. A record must never become visible to
// a subsequent load in half-written form.
type ResultWriter interface {
	Write(ctx context.Context, record *ArticleRecord) error

	// Flush makes all previously written records durable.
	Flush() error

	Close() error
}
