package newsarc

import "context"

// Outcome is the terminal state recorded for a processed URL.
type Outcome string

// Terminal outcomes. A URL transitions to exactly one of these per run and
// never leaves it within the run.
const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Checkpoint is the durable cursor over the candidate stream plus run-level
// counters. The cursor only advances past items whose records are durably
// written, so a crash never loses a processed-but-unrecorded item.
type Checkpoint struct {
	Cursor    int `json:"cursor"`
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ProgressStore tracks which URLs have already been processed and backs
// resumable restarts. MarkDone is safe to call concurrently from multiple
// workers. Loading tolerates a truncated trailing record from a previous
// crash: the torn record is discarded with a warning, not a load failure.
type ProgressStore interface {
	// Contains reports whether url was already processed, in this run or a
	// previous one. Membership is O(1) amortized.
	Contains(url string) bool

	// MarkDone records the terminal outcome for url. It must only be called
	// after the corresponding article record is durably written.
	MarkDone(ctx context.Context, url string, outcome Outcome) error

	// Checkpoint returns the current cursor and counters.
	Checkpoint() Checkpoint

	// Flush makes pending marks durable. Called at a bounded interval during
	// a run and on shutdown.
	Flush() error

	Close() error
}

// Pacer is the single shared pacing gate bounding aggregate outbound request
// rate regardless of worker count. Acquire blocks the caller until the next
// slot is available; contending callers are served fairly.
type Pacer interface {
	Acquire(ctx context.Context) error
}
