package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/newsarc"
	main "github.com/fwojciec/newsarc/cmd/newsarc"
	"github.com/fwojciec/newsarc/fs"
	"github.com/fwojciec/newsarc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("exports the latest record per URL", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "articles.jsonl")
		w, err := fs.NewWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(context.Background(),
			newsarc.FailedRecord("https://example.com/a", newsarc.Errorf(newsarc.ETRANSPORT, "timeout"))))
		require.NoError(t, w.Write(context.Background(), &newsarc.ArticleRecord{
			URL: "https://example.com/a", Success: true, Text: "Body.", TextLength: 5,
			ScrapedAt: time.Now().UTC(),
		}))
		require.NoError(t, w.Write(context.Background(), &newsarc.ArticleRecord{
			URL: "https://example.com/b", Success: true, Text: "Body.", TextLength: 5,
			ScrapedAt: time.Now().UTC(),
		}))
		require.NoError(t, w.Close())

		saved := make(map[string]*newsarc.ArticleRecord)
		articles := &mock.ArticleService{
			SaveArticleFn: func(_ context.Context, record *newsarc.ArticleRecord) error {
				saved[record.URL] = record
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Logger:   quietLogger(),
			Articles: articles,
		}

		cmd := &main.ExportCmd{Input: path}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Exported 2 articles")
		require.Len(t, saved, 2)
		// The re-scraped outcome wins over the earlier failure.
		assert.True(t, saved["https://example.com/a"].Success)
	})

	t.Run("returns error for a corrupt results file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "articles.jsonl")
		require.NoError(t, writeFile(path, "{corrupt\n{\"url\":\"https://example.com/a\",\"success\":true}\n"))

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Logger: quietLogger(),
		}

		cmd := &main.ExportCmd{Input: path}
		err := cmd.Run(deps)
		assert.Equal(t, newsarc.EMALFORMED, newsarc.ErrorCode(err))
	})
}
