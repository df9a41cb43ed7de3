package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/newsarc"
	main "github.com/fwojciec/newsarc/cmd/newsarc"
	"github.com/fwojciec/newsarc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func runMain(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "newsarc.db")
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	err = m.Run(context.Background(), args, strings.NewReader(""), stdout, stderr)
	return stdout, stderr, err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("no arguments shows help and errors", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runMain(t)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := runMain(t, "--help")
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "discover")
		assert.Contains(t, stdout.String(), "scrape")
	})

	t.Run("unknown command fails parsing", func(t *testing.T) {
		t.Parallel()

		_, _, err := runMain(t, "frobnicate")
		require.Error(t, err)
	})

	t.Run("export loads records into the database end to end", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "articles.jsonl")
		w, err := fs.NewWriter(path)
		require.NoError(t, err)
		require.NoError(t, w.Write(context.Background(), &newsarc.ArticleRecord{
			URL: "https://example.com/a", Success: true,
			Title: "Exported", Text: "Body.", TextLength: 5,
			ScrapedAt: time.Now().UTC(),
		}))
		require.NoError(t, w.Close())

		stdout, _, err := runMain(t, "export", path)
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Exported 1 articles")
	})
}
