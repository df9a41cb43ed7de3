package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/newsarc"
)

// SaveEntries writes discovered sitemap entries to path as a JSON array.
// The file is written to a temporary sibling and renamed into place, so a
// crash never leaves a half-written discovery file behind.
func SaveEntries(path string, entries []newsarc.SitemapEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadEntries reads a discovery file written by SaveEntries.
func LoadEntries(path string) ([]newsarc.SitemapEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newsarc.Errorf(newsarc.ENOTFOUND, "discovery file %s does not exist", path)
		}
		return nil, err
	}

	var entries []newsarc.SitemapEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, newsarc.Errorf(newsarc.EMALFORMED, "corrupt discovery file %s: %v", path, err)
	}
	return entries, nil
}
