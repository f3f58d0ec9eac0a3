package poll_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenaoj/backend/poll"
)

// concurrent TryAcquire calls for one id yield exactly one true
func TestTryAcquireSingleWinner(t *testing.T) {
	coord := poll.NewCoordinator()
	id := uuid.New()

	const callers = 100
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if coord.TryAcquire(id) {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestReleaseFreesTheSlot(t *testing.T) {
	coord := poll.NewCoordinator()
	id := uuid.New()

	require.True(t, coord.TryAcquire(id))
	require.False(t, coord.TryAcquire(id))

	coord.Release(id)
	assert.True(t, coord.TryAcquire(id))

	// release is idempotent
	coord.Release(id)
	coord.Release(id)
	assert.True(t, coord.TryAcquire(id))
}

func TestMarkCompletedIsIdempotent(t *testing.T) {
	coord := poll.NewCoordinator()
	id := uuid.New()

	assert.False(t, coord.IsCompleted(id))
	coord.MarkCompleted(id)
	coord.MarkCompleted(id)
	assert.True(t, coord.IsCompleted(id))
}

// once an id is in the completion registry, no acquire ever succeeds again
func TestCompletedLockout(t *testing.T) {
	coord := poll.NewCoordinator()
	id := uuid.New()

	coord.MarkCompleted(id)
	assert.False(t, coord.TryAcquire(id))

	coord.Release(id)
	assert.False(t, coord.TryAcquire(id))
}

func TestSlotsAreIndependentPerSubmission(t *testing.T) {
	coord := poll.NewCoordinator()
	a, b := uuid.New(), uuid.New()

	require.True(t, coord.TryAcquire(a))
	assert.True(t, coord.TryAcquire(b))

	coord.MarkCompleted(a)
	assert.False(t, coord.IsCompleted(b))
}
