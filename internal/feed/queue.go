package feed

import "sync/atomic"

// queueCapacity bounds the event channel. Nominal feed rates are a few
// events per second, so the bound is never reached in practice; when it
// is, the newest event is dropped and counted instead of blocking the
// producer.
const queueCapacity = 8192

// Queue carries decoded events from the ingestion worker to the render
// loop. Safe for one producer and one consumer.
type Queue struct {
	ch      chan Event
	dropped atomic.Uint64
}

func NewQueue() *Queue {
	return &Queue{ch: make(chan Event, queueCapacity)}
}

// Push enqueues an event without ever blocking.
func (q *Queue) Push(ev Event) {
	select {
	case q.ch <- ev:
	default:
		q.dropped.Add(1)
	}
}

// TryPop returns the next event, or false when the queue is empty.
func (q *Queue) TryPop() (Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return nil, false
	}
}

// Dropped reports how many events overflowed the queue.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
