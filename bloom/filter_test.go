package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/newsarc/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/a"))

	f.Add("https://example.com/a")

	assert.True(t, f.Test("https://example.com/a"))
	assert.False(t, f.Test("https://example.com/b"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.TestAndAdd("https://example.com/a"))
	assert.True(t, f.TestAndAdd("https://example.com/a"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(10000, 0.01)
	for i := range 500 {
		f.Add(fmt.Sprintf("https://example.com/article-%d", i))
	}

	count := f.EstimatedCount()
	assert.InDelta(t, 500, float64(count), 50)
}
