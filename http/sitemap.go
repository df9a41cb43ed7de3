package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/newsarc"
	"golang.org/x/sync/errgroup"
)

// DefaultWalkParallelism bounds concurrent child-index fetches.
const DefaultWalkParallelism = 3

// Ensure Walker implements newsarc.SitemapWalker at compile time.
var _ newsarc.SitemapWalker = (*Walker)(nil)

// Walker traverses sitemap indexes over HTTP. Nested indexes are expanded
// recursively with bounded parallelism; malformed or unreachable children
// are logged and skipped so one bad shard never aborts the walk.
type Walker struct {
	client      *http.Client
	logger      *slog.Logger
	userAgent   string
	maxParallel int
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithWalkParallelism bounds concurrent child-index fetches.
// Defaults to DefaultWalkParallelism.
func WithWalkParallelism(n int) WalkerOption {
	return func(w *Walker) {
		if n > 0 {
			w.maxParallel = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent with sitemap requests.
func WithUserAgent(ua string) WalkerOption {
	return func(w *Walker) {
		w.userAgent = ua
	}
}

// WithWalkerLogger sets the logger for skipped-child warnings.
func WithWalkerLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// NewWalker creates a Walker with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewWalker(client *http.Client, opts ...WalkerOption) *Walker {
	if client == nil {
		client = http.DefaultClient
	}
	w := &Walker{
		client:      client,
		logger:      slog.Default(),
		maxParallel: DefaultWalkParallelism,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// walkState is the shared accumulator for one Walk invocation.
type walkState struct {
	mu      sync.Mutex
	seen    map[string]bool // sitemap URLs, guards cycles and self-references
	entries []newsarc.SitemapEntry
}

func (s *walkState) markSeen(sitemapURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[sitemapURL] {
		return false
	}
	s.seen[sitemapURL] = true
	return true
}

func (s *walkState) append(entries []newsarc.SitemapEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// Walk fetches the index at indexURL and returns merged, deduplicated leaf
// entries. Entries whose implied year is known and below opts.MinYear are
// dropped at the leaf level; parent index filenames only encode coarse date
// ranges and are never used to prune whole branches.
func (w *Walker) Walk(ctx context.Context, indexURL string, opts newsarc.WalkOptions) ([]newsarc.SitemapEntry, error) {
	state := &walkState{seen: make(map[string]bool)}
	state.markSeen(indexURL)

	if err := w.walkDocument(ctx, indexURL, opts, state); err != nil {
		return nil, err
	}

	merged := newsarc.MergeEntries(state.entries)
	if opts.Limit > 0 && len(merged) > opts.Limit {
		merged = merged[:opts.Limit]
	}
	return merged, nil
}

// walkDocument fetches and parses one sitemap document, recursing into
// children when it is an index. Errors from children are logged and
// swallowed; errors from the document itself propagate to the caller.
func (w *Walker) walkDocument(ctx context.Context, sitemapURL string, opts newsarc.WalkOptions, state *walkState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := w.fetchSitemap(ctx, sitemapURL)
	if err != nil {
		return err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return newsarc.Errorf(newsarc.EMALFORMED, "parsing sitemap XML from %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return newsarc.Errorf(newsarc.EMALFORMED, "empty sitemap document at %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return w.walkIndex(ctx, root, sitemapURL, opts, state)
	}

	state.append(w.parseURLSet(root, sitemapURL, len(body), opts))
	return nil
}

// walkIndex expands a <sitemapindex> with bounded parallelism.
func (w *Walker) walkIndex(ctx context.Context, root *etree.Element, indexURL string, opts newsarc.WalkOptions, state *walkState) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxParallel)

	for _, child := range root.ChildElements() {
		if child.Tag != "sitemap" {
			continue
		}
		childURL := childText(child, "loc")
		if childURL == "" {
			continue
		}
		if !state.markSeen(childURL) {
			w.logger.Warn("sitemap already visited, skipping", "sitemap", childURL, "index", indexURL)
			continue
		}

		g.Go(func() error {
			if err := w.walkDocument(gctx, childURL, opts, state); err != nil {
				// Context errors must stop the group; per-child failures
				// are recorded and skipped.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				w.logger.Warn("skipping sitemap child",
					"sitemap", childURL,
					"index", indexURL,
					"code", newsarc.ErrorCode(err),
					"err", err,
				)
			}
			return nil
		})
	}

	return g.Wait()
}

// parseURLSet extracts leaf entries from a <urlset>, applying the leaf-level
// recency filter.
func (w *Walker) parseURLSet(root *etree.Element, sitemapURL string, sizeBytes int, opts newsarc.WalkOptions) []newsarc.SitemapEntry {
	downloadedAt := time.Now().UTC()
	sizeMB := float64(sizeBytes) / 1024 / 1024

	var entries []newsarc.SitemapEntry
	for _, el := range root.ChildElements() {
		if el.Tag != "url" {
			continue
		}
		loc := childText(el, "loc")
		if loc == "" {
			continue
		}

		entry := newsarc.SitemapEntry{
			Location:      loc,
			LastModified:  parseLastMod(childText(el, "lastmod")),
			ImageLocation: imageLocation(el),
			SourceSitemap: sitemapURL,
			SitemapSizeMB: sizeMB,
			DownloadedAt:  downloadedAt,
		}

		if opts.MinYear > 0 {
			if year := entry.Year(); year > 0 && year < opts.MinYear {
				continue
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// childText returns the trimmed text of the first child with the given
// local tag name, ignoring namespace prefixes.
func childText(el *etree.Element, tag string) string {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}

// imageLocation extracts the <image:image><image:loc> URL when present.
func imageLocation(el *etree.Element) string {
	for _, child := range el.ChildElements() {
		if child.Tag == "image" {
			return childText(child, "loc")
		}
	}
	return ""
}

// lastModLayouts are the timestamp formats seen across sitemap generators.
var lastModLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999Z07:00",
	"2006-01-02 15:04:05 UTC",
	"2006-01-02",
}

func parseLastMod(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range lastModLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}

// fetchSitemap retrieves a sitemap document, transparently decompressing
// gzipped shards. A shard named .xml.gz that is not actually gzip is read
// as plain XML; some archives serve them pre-decompressed.
func (w *Walker) fetchSitemap(ctx context.Context, sitemapURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, newsarc.Errorf(newsarc.EINVALID, "creating sitemap request for %s: %v", sitemapURL, err)
	}
	req.Header.Set("Accept", "application/xml,text/xml;q=0.9,*/*;q=0.8")
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, newsarc.Errorf(newsarc.ETRANSPORT, "fetching sitemap %s: %v", sitemapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newsarc.Errorf(newsarc.ETRANSPORT, "HTTP %d for sitemap %s", resp.StatusCode, sitemapURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newsarc.Errorf(newsarc.ETRANSPORT, "reading sitemap %s: %v", sitemapURL, err)
	}

	if strings.HasSuffix(sitemapURL, ".gz") && resp.Header.Get("Content-Encoding") == "" {
		if unzipped, err := gunzip(body); err == nil {
			return unzipped, nil
		}
		w.logger.Warn("sitemap not valid gzip, falling back to plain XML", "sitemap", sitemapURL)
	}
	return body, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
