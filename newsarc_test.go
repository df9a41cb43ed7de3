package newsarc_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/newsarc"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := newsarc.Errorf(newsarc.EREJECTED, "backend rejected %q", "https://example.com/a")

	assert.Equal(t, newsarc.EREJECTED, newsarc.ErrorCode(err))
	assert.Equal(t, "backend rejected \"https://example.com/a\"", newsarc.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, newsarc.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, newsarc.EINTERNAL, newsarc.ErrorCode(errors.New("boom")))
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{newsarc.ETRANSPORT, true},
		{newsarc.ERATELIMITED, true},
		{newsarc.EINTERNAL, true},
		{newsarc.EREJECTED, false},
		{newsarc.ELOWQUALITY, false},
		{newsarc.EUNAVAILABLE, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			err := newsarc.Errorf(tt.code, "test")
			assert.Equal(t, tt.want, newsarc.Retryable(err))
		})
	}
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.True(t, newsarc.Fatal(newsarc.Errorf(newsarc.EUNAVAILABLE, "backend down")))
	assert.False(t, newsarc.Fatal(newsarc.Errorf(newsarc.ETRANSPORT, "timeout")))
	assert.False(t, newsarc.Fatal(nil))
}

func TestMergeEntries(t *testing.T) {
	t.Parallel()

	ts := func(year int) *time.Time {
		v := time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
		return &v
	}

	t.Run("same location from two parent indexes keeps most recent lastmod", func(t *testing.T) {
		t.Parallel()

		entries := []newsarc.SitemapEntry{
			{Location: "https://example.com/a", LastModified: ts(2023), SourceSitemap: "https://example.com/archive-2023-1.xml"},
			{Location: "https://example.com/b", LastModified: ts(2024)},
			{Location: "https://example.com/a", LastModified: ts(2025), SourceSitemap: "https://example.com/archive-2025-1.xml"},
		}

		merged := newsarc.MergeEntries(entries)

		assert.Len(t, merged, 2)
		assert.Equal(t, "https://example.com/a", merged[0].Location)
		assert.Equal(t, 2025, merged[0].LastModified.Year())
		assert.Equal(t, "https://example.com/archive-2025-1.xml", merged[0].SourceSitemap)
	})

	t.Run("present lastmod beats absent", func(t *testing.T) {
		t.Parallel()

		entries := []newsarc.SitemapEntry{
			{Location: "https://example.com/a"},
			{Location: "https://example.com/a", LastModified: ts(2020)},
		}

		merged := newsarc.MergeEntries(entries)

		assert.Len(t, merged, 1)
		assert.NotNil(t, merged[0].LastModified)
	})

	t.Run("older duplicate does not replace newer", func(t *testing.T) {
		t.Parallel()

		entries := []newsarc.SitemapEntry{
			{Location: "https://example.com/a", LastModified: ts(2025)},
			{Location: "https://example.com/a", LastModified: ts(2019)},
		}

		merged := newsarc.MergeEntries(entries)

		assert.Len(t, merged, 1)
		assert.Equal(t, 2025, merged[0].LastModified.Year())
	})
}

func TestSitemapEntry_Year(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry newsarc.SitemapEntry
		want  int
	}{
		{
			name: "lastmod wins",
			entry: newsarc.SitemapEntry{
				LastModified:  timePtr(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)),
				SourceSitemap: "https://example.com/sitemaps/archive-1999-1.xml",
			},
			want: 2021,
		},
		{
			name:  "falls back to archive year in sitemap name",
			entry: newsarc.SitemapEntry{SourceSitemap: "https://example.com/sitemaps/archive-2017-12.xml"},
			want:  2017,
		},
		{
			name:  "no year determinable",
			entry: newsarc.SitemapEntry{SourceSitemap: "https://example.com/sitemaps/news.xml"},
			want:  0,
		},
		{
			name:  "archive marker without digits",
			entry: newsarc.SitemapEntry{SourceSitemap: "https://example.com/archive-old.xml"},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.entry.Year())
		})
	}
}

func TestArticleRecord_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires URL", func(t *testing.T) {
		t.Parallel()
		r := &newsarc.ArticleRecord{Success: true}
		err := r.Validate()
		assert.Equal(t, newsarc.EINVALID, newsarc.ErrorCode(err))
	})

	t.Run("failed record requires error kind", func(t *testing.T) {
		t.Parallel()
		r := &newsarc.ArticleRecord{URL: "https://example.com/a"}
		err := r.Validate()
		assert.Equal(t, newsarc.EINVALID, newsarc.ErrorCode(err))
	})

	t.Run("valid success record", func(t *testing.T) {
		t.Parallel()
		r := &newsarc.ArticleRecord{URL: "https://example.com/a", Success: true}
		assert.NoError(t, r.Validate())
	})
}

func timePtr(t time.Time) *time.Time { return &t }
