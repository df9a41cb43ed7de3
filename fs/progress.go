package fs

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/newsarc"
)

// DefaultFlushEvery bounds how many marks can be pending before the
// progress log is forced to disk.
const DefaultFlushEvery = 25

// Ensure ProgressStore implements newsarc.ProgressStore at compile time.
var _ newsarc.ProgressStore = (*ProgressStore)(nil)

// ProgressStore tracks processed URLs in an append-only JSONL log with an
// in-memory index for O(1) membership. Each mark appends one line; the
// full file is never rewritten, so the store stays cheap at millions of
// entries.
type ProgressStore struct {
	mu         sync.Mutex
	f          *os.File
	buf        *bufio.Writer
	path       string
	logger     *slog.Logger
	done       map[string]newsarc.Outcome
	checkpoint newsarc.Checkpoint
	pending    int
	flushEvery int
	preFlush   func() error
}

// progressMark is one line of the progress log.
type progressMark struct {
	URL     string          `json:"url"`
	Outcome newsarc.Outcome `json:"outcome"`
}

// ProgressOption configures a ProgressStore.
type ProgressOption func(*ProgressStore)

// WithFlushEvery sets how many marks may accumulate before an automatic
// flush. Defaults to DefaultFlushEvery.
func WithFlushEvery(n int) ProgressOption {
	return func(s *ProgressStore) {
		if n > 0 {
			s.flushEvery = n
		}
	}
}

// WithProgressLogger sets the logger used for load warnings.
func WithProgressLogger(logger *slog.Logger) ProgressOption {
	return func(s *ProgressStore) {
		s.logger = logger
	}
}

// WithPreFlush registers a hook that runs before marks are made durable.
// Pairing it with the result writer's Flush keeps a durable done-mark from
// ever getting ahead of its article record: a crash can then lose a mark
// (the item is retried) but never a marked item's record.
func WithPreFlush(fn func() error) ProgressOption {
	return func(s *ProgressStore) {
		s.preFlush = fn
	}
}

// OpenProgressStore loads the progress log at path, creating it if absent.
// A truncated trailing record from a prior crash is discarded with a
// warning; the store remains usable and the torn item will simply be
// re-attempted.
func OpenProgressStore(path string, opts ...ProgressOption) (*ProgressStore, error) {
	s := &ProgressStore{
		path:       path,
		logger:     slog.Default(),
		done:       make(map[string]newsarc.Outcome),
		flushEvery: DefaultFlushEvery,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	s.f = f
	s.buf = bufio.NewWriter(f)
	return s, nil
}

// load rebuilds the in-memory index and counters from the log.
func (s *ProgressStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	lines := splitLines(data)
	for i, line := range lines {
		var mark progressMark
		if err := json.Unmarshal(line, &mark); err != nil {
			if i == len(lines)-1 {
				s.logger.Warn("discarding torn trailing progress mark", "path", s.path, "err", err)
				break
			}
			return newsarc.Errorf(newsarc.EMALFORMED, "corrupt progress mark at %s line %d: %v", s.path, i+1, err)
		}
		s.apply(mark)
	}
	return nil
}

// apply records a mark in the in-memory state. Duplicate URLs keep the
// first outcome; counters only move for new URLs.
func (s *ProgressStore) apply(mark progressMark) {
	if _, ok := s.done[mark.URL]; ok {
		return
	}
	s.done[mark.URL] = mark.Outcome
	s.checkpoint.Cursor++
	s.checkpoint.Attempted++
	switch mark.Outcome {
	case newsarc.OutcomeSucceeded:
		s.checkpoint.Succeeded++
	case newsarc.OutcomeFailed:
		s.checkpoint.Failed++
	}
}

// Contains reports whether url was already processed.
func (s *ProgressStore) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.done[url]
	return ok
}

// MarkDone records the terminal outcome for url. Safe for concurrent use;
// marking an already-done URL is a no-op. Marks are flushed automatically
// every flushEvery calls.
func (s *ProgressStore) MarkDone(ctx context.Context, url string, outcome newsarc.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.done[url]; ok {
		return nil
	}

	line, err := json.Marshal(progressMark{URL: url, Outcome: outcome})
	if err != nil {
		return err
	}
	if _, err := s.buf.Write(line); err != nil {
		return err
	}
	if err := s.buf.WriteByte('\n'); err != nil {
		return err
	}

	s.apply(progressMark{URL: url, Outcome: outcome})
	s.pending++
	if s.pending >= s.flushEvery {
		return s.flushLocked()
	}
	return nil
}

// Checkpoint returns the current cursor and counters.
func (s *ProgressStore) Checkpoint() newsarc.Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoint
}

// Flush makes all pending marks durable.
func (s *ProgressStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *ProgressStore) flushLocked() error {
	if s.preFlush != nil {
		if err := s.preFlush(); err != nil {
			return err
		}
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	if err := s.f.Sync(); err != nil {
		return err
	}
	s.pending = 0
	return nil
}

// Close flushes and closes the log.
func (s *ProgressStore) Close() error {
	if err := s.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
