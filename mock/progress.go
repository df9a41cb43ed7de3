package mock

import (
	"context"

	"github.com/fwojciec/newsarc"
)

var _ newsarc.ProgressStore = (*ProgressStore)(nil)

// ProgressStore is a mock implementation of newsarc.ProgressStore.
type ProgressStore struct {
	ContainsFn   func(url string) bool
	MarkDoneFn   func(ctx context.Context, url string, outcome newsarc.Outcome) error
	CheckpointFn func() newsarc.Checkpoint
	FlushFn      func() error
	CloseFn      func() error
}

func (s *ProgressStore) Contains(url string) bool {
	return s.ContainsFn(url)
}

func (s *ProgressStore) MarkDone(ctx context.Context, url string, outcome newsarc.Outcome) error {
	return s.MarkDoneFn(ctx, url, outcome)
}

func (s *ProgressStore) Checkpoint() newsarc.Checkpoint {
	if s.CheckpointFn == nil {
		return newsarc.Checkpoint{}
	}
	return s.CheckpointFn()
}

func (s *ProgressStore) Flush() error {
	if s.FlushFn == nil {
		return nil
	}
	return s.FlushFn()
}

func (s *ProgressStore) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
