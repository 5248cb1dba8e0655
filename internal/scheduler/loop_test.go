package scheduler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

func TestLoop_TasksRunInPostOrder(t *testing.T) {
	loop := NewLoop(8, logger.Nop())
	defer loop.Stop()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, loop.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}

	// PostWait acts as a barrier: everything queued before it has run
	require.NoError(t, loop.PostWait(func() {}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 10)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestLoop_PostWaitReturnsAfterTaskRan(t *testing.T) {
	loop := NewLoop(0, logger.Nop())
	defer loop.Stop()

	ran := false
	require.NoError(t, loop.PostWait(func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_StopDrainsQueuedTasks(t *testing.T) {
	loop := NewLoop(16, logger.Nop())

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, loop.Post(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		}))
	}

	loop.Stop()

	mu.Lock()
	assert.Equal(t, 5, ran)
	mu.Unlock()
}

func TestLoop_PostAfterStopFails(t *testing.T) {
	loop := NewLoop(0, logger.Nop())
	loop.Stop()

	err := loop.Post(func() {})
	require.ErrorIs(t, err, ErrLoopStopped)

	err = loop.PostWait(func() {})
	require.ErrorIs(t, err, ErrLoopStopped)
}

func TestLoop_StopIsIdempotent(t *testing.T) {
	loop := NewLoop(0, logger.Nop())
	loop.Stop()
	loop.Stop()
}
