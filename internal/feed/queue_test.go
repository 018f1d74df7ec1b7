package feed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/voss/neuroscope/internal/feed"
)

func TestQueueFIFO(t *testing.T) {
	q := feed.NewQueue()

	for i := 0; i < 10; i++ {
		q.Push(feed.GraphUpdateEvent{NodeID: i})
	}

	for i := 0; i < 10; i++ {
		ev, ok := q.TryPop()
		require.True(t, ok, "Expected event %d to be queued", i)
		assert.Equal(t, feed.GraphUpdateEvent{NodeID: i}, ev, "Expected arrival order preserved")
	}

	_, ok := q.TryPop()
	assert.False(t, ok, "Expected the queue to be empty")
	assert.Zero(t, q.Dropped(), "Expected no drops below capacity")
}

func TestQueuePushNeverBlocks(t *testing.T) {
	q := feed.NewQueue()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100000; i++ {
			q.Push(feed.LogEvent{Text: "overflow"})
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Expected pushes to complete with no consumer attached")
	}

	assert.NotZero(t, q.Dropped(), "Expected overflow to drop events instead of blocking")

	// Events that fit are still delivered in order.
	ev, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, feed.LogEvent{Text: "overflow"}, ev)
}
