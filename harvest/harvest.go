// Package harvest provides the article harvesting orchestration. It
// coordinates pacing, rendering, extraction, result persistence, and
// progress tracking across a bounded pool of workers.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/newsarc"
	"github.com/fwojciec/newsarc/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Scheduler defaults.
const (
	DefaultWorkers          = 3
	DefaultMaxAttempts      = 3
	DefaultBackoffBase      = 1 * time.Second
	DefaultBackoffCap       = 30 * time.Second
	DefaultFailureThreshold = 5
	DefaultDrainTimeout     = 15 * time.Second

	// bloomFalsePositiveRate for in-run candidate deduplication. An item
	// skipped by a false positive is never marked done, so a later run
	// retries it.
	bloomFalsePositiveRate = 0.0001
)

// Scheduler drives a harvest run over a candidate list. All fields except
// the optional ones must be set before calling Run.
type Scheduler struct {
	Render    newsarc.RenderClient
	Extractor newsarc.Extractor
	Writer    newsarc.ResultWriter
	Progress  newsarc.ProgressStore
	Pacer     newsarc.Pacer

	// Workers bounds concurrent in-flight items. Defaults to DefaultWorkers.
	Workers int

	// MaxAttempts bounds render attempts per item, including the first.
	// Defaults to DefaultMaxAttempts.
	MaxAttempts int

	// BackoffBase and BackoffCap shape the delay between retries: the delay
	// starts at BackoffBase and doubles per attempt up to BackoffCap.
	BackoffBase time.Duration
	BackoffCap  time.Duration

	// FailureThreshold is the number of consecutive transport failures
	// across all workers after which the backend is declared unavailable
	// and the run aborts. Defaults to DefaultFailureThreshold.
	FailureThreshold int

	// DrainTimeout bounds how long in-flight items may run to completion
	// after the run context is canceled. Defaults to DefaultDrainTimeout.
	DrainTimeout time.Duration

	Logger *slog.Logger
}

// Summary is the outcome of a harvest run. Attempted + Skipped equals the
// number of candidates considered before the run ended.
type Summary struct {
	RunID       string
	StartedAt   time.Time
	FinishedAt  time.Time
	Attempted   int
	Succeeded   int
	Failed      int
	Skipped     int
	Interrupted bool

	// FailureKinds counts failed items by error kind.
	FailureKinds map[string]int
}

// Session converts the summary into a persistable session record.
func (s *Summary) Session() *newsarc.Session {
	return &newsarc.Session{
		ID:         s.RunID,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Attempted:  s.Attempted,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
		Skipped:    s.Skipped,
	}
}

// run holds the mutable state of a single Run invocation.
type run struct {
	*Scheduler
	logger            *slog.Logger
	summary           Summary
	mu                sync.Mutex
	transportFailures atomic.Int64
}

// Run processes the candidate entries and returns a summary. It verifies
// backend health before touching any candidate and returns an EUNAVAILABLE
// error if the backend is not ready.
//
// Per-item failures are recorded as failed article records and do not fail
// the run. Run returns an error only when the run as a whole cannot
// continue: the backend became unavailable or a record could not be
// persisted. Canceling ctx stops intake of new items, lets in-flight items
// drain for up to DrainTimeout, and returns a summary with Interrupted set
// and a nil error.
func (s *Scheduler) Run(ctx context.Context, entries []newsarc.SitemapEntry) (*Summary, error) {
	if err := s.Render.Health(ctx); err != nil {
		return nil, err
	}

	r := &run{
		Scheduler: s,
		logger:    s.logger(),
		summary: Summary{
			RunID:        uuid.New().String(),
			StartedAt:    time.Now().UTC(),
			FailureKinds: make(map[string]int),
		},
	}

	r.logger.Info("harvest run starting",
		"run_id", r.summary.RunID,
		"candidates", len(entries),
		"workers", s.workers(),
	)

	// In-flight items run on a context detached from the caller's so a
	// cancellation drains cleanly instead of tearing half-written work. The
	// detached context is canceled DrainTimeout after the caller's.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()
	drainDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			t := time.NewTimer(s.drainTimeout())
			defer t.Stop()
			select {
			case <-t.C:
				cancelWork()
			case <-drainDone:
			}
		case <-drainDone:
		}
	}()

	seen := bloom.NewFilter(bloomSize(len(entries)), bloomFalsePositiveRate)

	g, gctx := errgroup.WithContext(workCtx)
	g.SetLimit(s.workers())

	for _, entry := range entries {
		// Stop intake on caller cancellation or fatal worker error.
		if ctx.Err() != nil || gctx.Err() != nil {
			break
		}

		url := entry.Location
		if seen.TestAndAdd(url) || s.Progress.Contains(url) {
			r.addSkipped()
			continue
		}

		g.Go(func() error {
			return r.process(gctx, url)
		})
	}

	err := g.Wait()
	close(drainDone)

	if flushErr := s.Writer.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if flushErr := s.Progress.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}

	r.summary.FinishedAt = time.Now().UTC()
	r.summary.Interrupted = ctx.Err() != nil

	if err != nil && errors.Is(err, context.Canceled) {
		err = nil
	}

	r.logger.Info("harvest run finished",
		"run_id", r.summary.RunID,
		"attempted", r.summary.Attempted,
		"succeeded", r.summary.Succeeded,
		"failed", r.summary.Failed,
		"skipped", r.summary.Skipped,
		"interrupted", r.summary.Interrupted,
	)

	return &r.summary, err
}

// process takes one URL through render, extract, and persist. A returned
// error aborts the whole run; per-item failures become failed records.
func (r *run) process(ctx context.Context, url string) error {
	record, err := r.harvest(ctx, url)
	if err != nil {
		return err
	}
	if record == nil {
		// The run is shutting down; the item stays unmarked and a later
		// run retries it.
		return ctx.Err()
	}

	// The record must be durable before the URL is marked done, so a crash
	// between the two retries the item instead of losing it.
	if err := r.Writer.Write(ctx, record); err != nil {
		return err
	}
	outcome := newsarc.OutcomeSucceeded
	if !record.Success {
		outcome = newsarc.OutcomeFailed
	}
	if err := r.Progress.MarkDone(ctx, url, outcome); err != nil {
		return err
	}

	r.addOutcome(record)
	return nil
}

// harvest renders and extracts one URL, returning the record to persist.
// A nil record means the surrounding run is shutting down; a non-nil error
// means the backend is unavailable and the run must abort.
func (r *run) harvest(ctx context.Context, url string) (*newsarc.ArticleRecord, error) {
	html, err := r.fetch(ctx, url)
	if err != nil {
		if newsarc.Fatal(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, nil
		}
		r.logger.Warn("render failed", "url", url, "kind", newsarc.ErrorCode(err), "err", err)
		return newsarc.FailedRecord(url, err), nil
	}

	extraction, err := r.Extractor.Extract(html, url)
	if err != nil {
		r.logger.Warn("extraction failed", "url", url, "kind", newsarc.ErrorCode(err), "err", err)
		return newsarc.FailedRecord(url, err), nil
	}

	return &newsarc.ArticleRecord{
		URL:         url,
		Success:     true,
		Title:       extraction.Title,
		Text:        extraction.Text,
		Authors:     extraction.Authors,
		PublishDate: extraction.PublishDate,
		TextLength:  len(extraction.Text),
		ScrapedAt:   time.Now().UTC(),
		TopImage:    extraction.TopImage,
	}, nil
}

// fetch renders url, retrying retryable failures with doubling backoff up
// to MaxAttempts total attempts. Each attempt waits for a pacer slot first,
// so retries are paced like any other request.
func (r *run) fetch(ctx context.Context, url string) (string, error) {
	backoff := r.backoffBase()
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts(); attempt++ {
		if err := r.Pacer.Acquire(ctx); err != nil {
			return "", err
		}

		html, err := r.Render.Render(ctx, url)
		if err == nil {
			r.transportFailures.Store(0)
			return html, nil
		}
		lastErr = err

		if newsarc.Fatal(err) {
			return "", err
		}
		if escErr := r.noteTransportFailure(err, url); escErr != nil {
			return "", escErr
		}
		if !newsarc.Retryable(err) {
			return "", err
		}
		if attempt == r.maxAttempts() {
			break
		}

		r.logger.Debug("retrying render",
			"url", url, "attempt", attempt, "backoff", backoff, "err", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, r.backoffCap())
	}

	return "", lastErr
}

// noteTransportFailure tracks consecutive transport-level failures across
// all workers. Once the threshold is crossed the backend is considered
// down and the run aborts instead of burning every remaining candidate.
func (r *run) noteTransportFailure(err error, url string) error {
	if newsarc.ErrorCode(err) != newsarc.ETRANSPORT {
		return nil
	}
	n := r.transportFailures.Add(1)
	if int(n) < r.failureThreshold() {
		return nil
	}
	r.logger.Error("rendering backend unreachable, aborting run",
		"consecutive_failures", n, "last_url", url)
	return newsarc.Errorf(newsarc.EUNAVAILABLE,
		"rendering backend unreachable after %d consecutive transport failures", n)
}

func (r *run) addSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.Skipped++
}

func (r *run) addOutcome(record *newsarc.ArticleRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.Attempted++
	if record.Success {
		r.summary.Succeeded++
		return
	}
	r.summary.Failed++
	r.summary.FailureKinds[record.ErrorKind]++
}

func (s *Scheduler) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return DefaultWorkers
}

func (s *Scheduler) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (s *Scheduler) backoffBase() time.Duration {
	if s.BackoffBase > 0 {
		return s.BackoffBase
	}
	return DefaultBackoffBase
}

func (s *Scheduler) backoffCap() time.Duration {
	if s.BackoffCap > 0 {
		return s.BackoffCap
	}
	return DefaultBackoffCap
}

func (s *Scheduler) failureThreshold() int {
	if s.FailureThreshold > 0 {
		return s.FailureThreshold
	}
	return DefaultFailureThreshold
}

func (s *Scheduler) drainTimeout() time.Duration {
	if s.DrainTimeout > 0 {
		return s.DrainTimeout
	}
	return DefaultDrainTimeout
}

func (s *Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// bloomSize picks the filter capacity for n candidates.
func bloomSize(n int) uint {
	if n < 1024 {
		return 1024
	}
	return uint(n)
}

// FormatFailureKinds renders the per-kind failure counts for display,
// sorted for stable output.
func FormatFailureKinds(kinds map[string]int) string {
	if len(kinds) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(kinds))
	for kind := range kinds {
		keys = append(keys, kind)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, kind := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, kinds[kind]))
	}
	return strings.Join(parts, ", ")
}
