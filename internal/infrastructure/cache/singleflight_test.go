package cache

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinatorCollapsesConcurrentCallsForSameFingerprint(t *testing.T) {
	// Arrange
	c := NewCoordinator()
	var calls int32
	var wg sync.WaitGroup
	results := make([]interface{}, 20)

	fn := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "result", nil
	}

	// Act: 20 concurrent followers for the same fingerprint.
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, _, _ := c.Do("same-fingerprint", fn)
			results[idx] = v
		}(i)
	}
	wg.Wait()

	// Assert: exactly one underlying call, every caller sees its result.
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "result", r)
	}
}

func TestCoordinatorDoesNotCollapseDifferentFingerprints(t *testing.T) {
	// Arrange
	c := NewCoordinator()
	var calls int32
	fn := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}

	// Act
	c.Do("fp-a", fn)
	c.Do("fp-b", fn)

	// Assert
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}
