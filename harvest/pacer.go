package harvest

import (
	"context"
	"time"

	"github.com/fwojciec/newsarc"
	"golang.org/x/time/rate"
)

var _ newsarc.Pacer = (*IntervalPacer)(nil)

// DefaultPaceInterval is the minimum spacing between outbound render
// requests when none is configured.
const DefaultPaceInterval = 500 * time.Millisecond

// IntervalPacer spaces outbound requests at a fixed interval using a token
// bucket with a burst of one. A single pacer is shared by all workers, so
// the aggregate request rate stays bounded no matter how many workers run
// concurrently. Contending workers are served in FIFO order.
type IntervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer creates a pacer releasing one slot per interval.
// Non-positive intervals fall back to DefaultPaceInterval.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	if interval <= 0 {
		interval = DefaultPaceInterval
	}
	return &IntervalPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Acquire blocks until the next slot is available or ctx is canceled.
func (p *IntervalPacer) Acquire(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
