package newsarc

import (
	"context"
	"time"
)

// Session summarizes one harvest run.
type Session struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Attempted  int
	Succeeded  int
	Failed     int
	Skipped    int
}

// SessionService persists run summaries for later inspection.
type SessionService interface {
	CreateSession(ctx context.Context, session *Session) error

	// FindSessions returns all recorded sessions, most recent first.
	FindSessions(ctx context.Context) ([]*Session, error)
}

// ArticleStats aggregates the stored article corpus.
type ArticleStats struct {
	Total     int
	Succeeded int
	Failed    int
}

// ArticleService is durable, queryable article storage. SaveArticle upserts
// by URL, so re-scraping a URL replaces its current record rather than
// accumulating duplicates.
type ArticleService interface {
	SaveArticle(ctx context.Context, record *ArticleRecord) error
	FindArticleByURL(ctx context.Context, url string) (*ArticleRecord, error)
	ArticleStats(ctx context.Context) (*ArticleStats, error)
}
