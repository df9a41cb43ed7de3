package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/newsarc"
)

// Compile-time interface verification.
var _ newsarc.ArticleService = (*ArticleService)(nil)

// authorSeparator joins the authors list into a single column. Semicolons
// match the byline convention of the scraped records, where commas can
// appear inside a single author name.
const authorSeparator = "; "

// ArticleService implements newsarc.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// hashContent computes xxHash of content and returns it as a hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// SaveArticle upserts the record keyed by URL. Saving a URL that already
// exists replaces the stored row, so the table always holds exactly one
// current outcome per URL.
func (s *ArticleService) SaveArticle(ctx context.Context, record *newsarc.ArticleRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	var publishDate any
	if record.PublishDate != nil {
		publishDate = record.PublishDate.UTC().Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (url, success, title, text, authors, publish_date, text_length, scraped_at, top_image, error_kind, error_detail, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			success = excluded.success,
			title = excluded.title,
			text = excluded.text,
			authors = excluded.authors,
			publish_date = excluded.publish_date,
			text_length = excluded.text_length,
			scraped_at = excluded.scraped_at,
			top_image = excluded.top_image,
			error_kind = excluded.error_kind,
			error_detail = excluded.error_detail,
			content_hash = excluded.content_hash
	`, record.URL, record.Success, record.Title, record.Text,
		strings.Join(record.Authors, authorSeparator), publishDate,
		record.TextLength, record.ScrapedAt.UTC().Format(time.RFC3339),
		record.TopImage, record.ErrorKind, record.ErrorDetail,
		hashContent(record.Text))

	return err
}

// FindArticleByURL retrieves the current record for url.
func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*newsarc.ArticleRecord, error) {
	var record newsarc.ArticleRecord
	var authors string
	var publishDate sql.NullString
	var scrapedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT url, success, title, text, authors, publish_date, text_length, scraped_at, top_image, error_kind, error_detail
		FROM articles
		WHERE url = ?
	`, url).Scan(&record.URL, &record.Success, &record.Title, &record.Text,
		&authors, &publishDate, &record.TextLength, &scrapedAt,
		&record.TopImage, &record.ErrorKind, &record.ErrorDetail)

	if err == sql.ErrNoRows {
		return nil, newsarc.Errorf(newsarc.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}

	if authors != "" {
		record.Authors = strings.Split(authors, authorSeparator)
	}
	if publishDate.Valid {
		t, err := time.Parse(time.RFC3339, publishDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse publish_date: %w", err)
		}
		record.PublishDate = &t
	}
	record.ScrapedAt, err = time.Parse(time.RFC3339, scrapedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scraped_at: %w", err)
	}

	return &record, nil
}

// ArticleStats returns corpus-level counts.
func (s *ArticleService) ArticleStats(ctx context.Context) (*newsarc.ArticleStats, error) {
	var stats newsarc.ArticleStats

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0)
		FROM articles
	`).Scan(&stats.Total, &stats.Succeeded, &stats.Failed)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
