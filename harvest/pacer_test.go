package harvest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/newsarc/harvest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalPacer_SpacesAcquires(t *testing.T) {
	t.Parallel()

	p := harvest.NewIntervalPacer(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Acquire(ctx))
	require.NoError(t, p.Acquire(ctx))
	require.NoError(t, p.Acquire(ctx))
	elapsed := time.Since(start)

	// First slot is immediate; the next two wait one interval each.
	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
}

func TestIntervalPacer_SharedAcrossWorkers(t *testing.T) {
	t.Parallel()

	p := harvest.NewIntervalPacer(20 * time.Millisecond)
	ctx := context.Background()

	const workers = 4
	const acquiresPerWorker = 2

	var wg sync.WaitGroup
	start := time.Now()
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range acquiresPerWorker {
				assert.NoError(t, p.Acquire(ctx))
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	// The pacer is shared, so the aggregate rate across all workers stays
	// one acquire per interval: 8 acquires need at least 7 intervals.
	assert.GreaterOrEqual(t, elapsed, (workers*acquiresPerWorker-1)*20*time.Millisecond)
}

func TestIntervalPacer_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	p := harvest.NewIntervalPacer(time.Hour)
	ctx := context.Background()
	require.NoError(t, p.Acquire(ctx))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Acquire(ctx))
}
