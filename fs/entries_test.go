package fs_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/newsarc"
	"github.com/fwojciec/newsarc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "raw", "sitemap_data.json")
	lastmod := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	entries := []newsarc.SitemapEntry{
		{
			Location:      "https://example.com/content/a",
			LastModified:  &lastmod,
			ImageLocation: "https://example.com/img/a.jpg",
			SourceSitemap: "https://example.com/sitemaps/archive-2025-1.xml",
			SitemapSizeMB: 1.5,
			DownloadedAt:  time.Now().UTC(),
		},
		{
			Location:      "https://example.com/content/b",
			SourceSitemap: "https://example.com/sitemaps/news.xml",
			DownloadedAt:  time.Now().UTC(),
		},
	}

	require.NoError(t, fs.SaveEntries(path, entries))

	loaded, err := fs.LoadEntries(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, entries[0].Location, loaded[0].Location)
	assert.True(t, lastmod.Equal(*loaded[0].LastModified))
	assert.Nil(t, loaded[1].LastModified)
}

func TestSaveEntries_UsesWireFieldNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sitemap_data.json")
	lastmod := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, fs.SaveEntries(path, []newsarc.SitemapEntry{{
		Location:      "https://example.com/a",
		LastModified:  &lastmod,
		ImageLocation: "https://example.com/a.jpg",
		SourceSitemap: "https://example.com/sm.xml",
		SitemapSizeMB: 0.5,
		DownloadedAt:  lastmod,
	}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"loc", "lastmod", "image_loc", "sitemap", "sitemap_size_mb", "download_date"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestLoadEntries_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := fs.LoadEntries(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, newsarc.ENOTFOUND, newsarc.ErrorCode(err))
}

func TestLoadEntries_CorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := fs.LoadEntries(path)
	assert.Equal(t, newsarc.EMALFORMED, newsarc.ErrorCode(err))
}
