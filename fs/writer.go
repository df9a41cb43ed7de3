// Package fs provides file-based persistence for article records, sitemap
// entries, and harvest progress. Records are stored as append-only JSONL so
// that a crash mid-write at worst leaves a torn trailing line, which loads
// discard with a warning.
package fs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/newsarc"
)

// Ensure Writer implements newsarc.ResultWriter at compile time.
var _ newsarc.ResultWriter = (*Writer)(nil)

// Writer appends article records to a JSONL file. It is safe for concurrent
// use by multiple workers; writes are serialized internally so each line is
// a complete record.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	buf  *bufio.Writer
	path string
}

// NewWriter opens (or creates) the JSONL file at path for appending.
func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{
		f:    f,
		buf:  bufio.NewWriter(f),
		path: path,
	}, nil
}

// Write appends one record. The record is buffered; call Flush to make it
// durable.
func (w *Writer) Write(ctx context.Context, record *newsarc.ArticleRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	line, err := json.Marshal(record)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.buf.Write(line); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

// Flush writes buffered records to disk and syncs the file, making every
// previously written record durable as a batch.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.f.Sync()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// LoadRecords reads all article records from a JSONL file. A corrupt
// trailing line (torn by a crash mid-write) is discarded with a warning;
// corruption anywhere else is an error. A missing file yields no records.
func LoadRecords(path string, logger *slog.Logger) ([]*newsarc.ArticleRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines := splitLines(data)
	var records []*newsarc.ArticleRecord
	for i, line := range lines {
		var record newsarc.ArticleRecord
		if err := json.Unmarshal(line, &record); err != nil {
			if i == len(lines)-1 {
				logger.Warn("discarding torn trailing record", "path", path, "err", err)
				break
			}
			return nil, newsarc.Errorf(newsarc.EMALFORMED, "corrupt record at %s line %d: %v", path, i+1, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// CurrentRecords reduces a record stream to the current outcome per URL:
// the last record written for a URL wins, so a re-scrape overwrites.
func CurrentRecords(records []*newsarc.ArticleRecord) map[string]*newsarc.ArticleRecord {
	current := make(map[string]*newsarc.ArticleRecord, len(records))
	for _, r := range records {
		current[r.URL] = r
	}
	return current
}

// splitLines splits on newlines, dropping empty lines.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}
