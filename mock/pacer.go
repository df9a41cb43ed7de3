package mock

import (
	"context"

	"github.com/fwojciec/newsarc"
)

var _ newsarc.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of newsarc.Pacer.
type Pacer struct {
	AcquireFn func(ctx context.Context) error
}

func (p *Pacer) Acquire(ctx context.Context) error {
	if p.AcquireFn == nil {
		return nil
	}
	return p.AcquireFn(ctx)
}
