package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/newsarc"
	"github.com/fwojciec/newsarc/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_SaveAndFind(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewArticleService(db)
	ctx := context.Background()

	published := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	record := &newsarc.ArticleRecord{
		URL:         "https://example.com/content/abc",
		Success:     true,
		Title:       "Markets rally on rate cut",
		Text:        "The article body.",
		Authors:     []string{"Ada Lovelace", "Grace Hopper"},
		PublishDate: &published,
		TextLength:  17,
		ScrapedAt:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		TopImage:    "https://example.com/img/abc.jpg",
	}

	require.NoError(t, s.SaveArticle(ctx, record))

	got, err := s.FindArticleByURL(ctx, record.URL)
	require.NoError(t, err)
	assert.Equal(t, record.URL, got.URL)
	assert.True(t, got.Success)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.Text, got.Text)
	assert.Equal(t, []string{"Ada Lovelace", "Grace Hopper"}, got.Authors)
	require.NotNil(t, got.PublishDate)
	assert.True(t, published.Equal(*got.PublishDate))
	assert.True(t, record.ScrapedAt.Equal(got.ScrapedAt))
	assert.Equal(t, record.TopImage, got.TopImage)
}

func TestArticleService_UpsertReplacesCurrentRecord(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewArticleService(db)
	ctx := context.Background()

	url := "https://example.com/content/abc"
	failed := newsarc.FailedRecord(url, newsarc.Errorf(newsarc.ETRANSPORT, "timeout"))
	require.NoError(t, s.SaveArticle(ctx, failed))

	require.NoError(t, s.SaveArticle(ctx, &newsarc.ArticleRecord{
		URL:        url,
		Success:    true,
		Title:      "Recovered on retry",
		Text:       "Body.",
		TextLength: 5,
		ScrapedAt:  time.Now().UTC(),
	}))

	got, err := s.FindArticleByURL(ctx, url)
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Empty(t, got.ErrorKind)

	stats, err := s.ArticleStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
}

func TestArticleService_FindArticleByURL_NotFound(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewArticleService(db)

	_, err := s.FindArticleByURL(context.Background(), "https://example.com/missing")
	assert.Equal(t, newsarc.ENOTFOUND, newsarc.ErrorCode(err))
}

func TestArticleService_RejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewArticleService(db)

	err := s.SaveArticle(context.Background(), &newsarc.ArticleRecord{Success: true})
	assert.Equal(t, newsarc.EINVALID, newsarc.ErrorCode(err))
}

func TestArticleService_Stats(t *testing.T) {
	t.Parallel()

	db := mustOpenDB(t)
	s := sqlite.NewArticleService(db)
	ctx := context.Background()

	for i, url := range []string{
		"https://example.com/content/a",
		"https://example.com/content/b",
		"https://example.com/content/c",
	} {
		record := &newsarc.ArticleRecord{
			URL:        url,
			Success:    i < 2,
			Text:       "Body.",
			TextLength: 5,
			ScrapedAt:  time.Now().UTC(),
		}
		if !record.Success {
			record.ErrorKind = newsarc.ELOWQUALITY
		}
		require.NoError(t, s.SaveArticle(ctx, record))
	}

	stats, err := s.ArticleStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
}
