package newsarc

import (
	"context"
	"time"
)

// SitemapEntry is a single article location discovered during a sitemap
// walk. Location is the unique key; duplicate discoveries of the same
// location are merged, keeping the most recent LastModified.
type SitemapEntry struct {
	Location      string     `json:"loc"`
	LastModified  *time.Time `json:"lastmod,omitempty"`
	ImageLocation string     `json:"image_loc,omitempty"`
	SourceSitemap string     `json:"sitemap"`
	SitemapSizeMB float64    `json:"sitemap_size_mb"`
	DownloadedAt  time.Time  `json:"download_date"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *SitemapEntry) Validate() error {
	if e.Location == "" {
		return Errorf(EINVALID, "sitemap entry location required")
	}
	return nil
}

// Year returns the publication year the entry implies: the LastModified
// year when present, otherwise a year encoded in the source sitemap
// filename (archive indexes name their shards archive-YYYY-...), otherwise
// zero.
func (e *SitemapEntry) Year() int {
	if e.LastModified != nil {
		return e.LastModified.Year()
	}
	return yearFromSitemapName(e.SourceSitemap)
}

// yearFromSitemapName extracts a four-digit year following an "archive-"
// segment in a sitemap URL, e.g. .../sitemaps/archive-2019-3.xml -> 2019.
func yearFromSitemapName(sitemapURL string) int {
	const marker = "archive-"
	for i := 0; i+len(marker) <= len(sitemapURL); i++ {
		if sitemapURL[i:i+len(marker)] != marker {
			continue
		}
		rest := sitemapURL[i+len(marker):]
		if len(rest) < 4 {
			return 0
		}
		year := 0
		for _, c := range rest[:4] {
			if c < '0' || c > '9' {
				return 0
			}
			year = year*10 + int(c-'0')
		}
		return year
	}
	return 0
}

// MergeEntries deduplicates entries by Location. When the same location was
// discovered from multiple parent indexes, the surviving entry keeps the
// most recent LastModified. Relative order of first discovery is preserved.
func MergeEntries(entries []SitemapEntry) []SitemapEntry {
	byLoc := make(map[string]int, len(entries))
	merged := make([]SitemapEntry, 0, len(entries))

	for _, e := range entries {
		i, ok := byLoc[e.Location]
		if !ok {
			byLoc[e.Location] = len(merged)
			merged = append(merged, e)
			continue
		}
		if newerLastMod(e.LastModified, merged[i].LastModified) {
			merged[i] = e
		}
	}
	return merged
}

// newerLastMod reports whether a is strictly more recent than b.
// A present timestamp always beats an absent one.
func newerLastMod(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

// WalkOptions control a sitemap walk.
type WalkOptions struct {
	// MinYear drops leaf entries whose implied year is known and below the
	// minimum. Entries with no determinable year are kept. Zero disables
	// the filter.
	MinYear int

	// Limit caps the number of entries returned. Zero means unlimited.
	Limit int
}

// SitemapWalker traverses a root sitemap index, recursively expanding
// nested indexes, and returns the qualifying leaf entries.
type SitemapWalker interface {
	// Walk fetches the index at indexURL and returns merged, deduplicated
	// leaf entries. Malformed or unreachable child documents are logged and
	// skipped; one bad child never aborts the walk. Ordering across
	// branches is not guaranteed.
	Walk(ctx context.Context, indexURL string, opts WalkOptions) ([]SitemapEntry, error)
}
