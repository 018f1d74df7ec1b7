package scene

import "codeberg.org/voss/neuroscope/internal/feed"

// LogRing is a fixed-capacity FIFO of log events. Pushing past
// capacity evicts the oldest entry.
type LogRing struct {
	buf   []feed.LogEvent
	start int
	count int
}

func NewLogRing(capacity int) *LogRing {
	if capacity < 1 {
		capacity = 1
	}

	return &LogRing{buf: make([]feed.LogEvent, capacity)}
}

// Push appends an entry, dropping the oldest one when full.
func (r *LogRing) Push(entry feed.LogEvent) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = entry
		r.count++

		return
	}

	r.buf[r.start] = entry
	r.start = (r.start + 1) % len(r.buf)
}

// Len reports the number of stored entries.
func (r *LogRing) Len() int {
	return r.count
}

// At returns the i-th entry, oldest first. Indexing out of range
// panics, matching slice semantics.
func (r *LogRing) At(i int) feed.LogEvent {
	if i < 0 || i >= r.count {
		panic("scene: log ring index out of range")
	}

	return r.buf[(r.start+i)%len(r.buf)]
}

// Recent returns up to n of the newest entries, oldest first.
func (r *LogRing) Recent(n int) []feed.LogEvent {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}

	out := make([]feed.LogEvent, n)
	for i := range out {
		out[i] = r.At(r.count - n + i)
	}

	return out
}
