// internal/frame/frame.go
package frame

import "time"

// Handle identifies a requested frame callback. The zero Handle is never
// issued, so it can stand for "nothing scheduled".
type Handle uint64

// Callback runs once on the next frame.
type Callback func(now time.Time)

// Scheduler requests and cancels one-shot frame callbacks. Implementations
// run every callback on the same execution context as the code that
// requested it.
type Scheduler interface {
	RequestFrame(cb Callback) Handle
	CancelFrame(h Handle)
}

// Queue is a manually driven Scheduler. Nothing runs until Flush is called,
// which makes it the scheduler of choice for tests and scripted replays.
// A Queue is not safe for concurrent use.
type Queue struct {
	next    Handle
	pending map[Handle]Callback
	order   []Handle
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{pending: make(map[Handle]Callback)}
}

// RequestFrame schedules cb for the next Flush.
func (q *Queue) RequestFrame(cb Callback) Handle {
	if cb == nil {
		return 0
	}
	q.next++
	h := q.next
	q.pending[h] = cb
	q.order = append(q.order, h)
	return h
}

// CancelFrame drops a pending callback. Unknown or already-run handles are ignored.
func (q *Queue) CancelFrame(h Handle) {
	delete(q.pending, h)
}

// Pending reports how many callbacks are waiting for the next Flush.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Flush runs the callbacks that were pending when it was called, in request
// order, and returns how many ran. Callbacks requested while flushing wait
// for the following Flush.
func (q *Queue) Flush(now time.Time) int {
	batch := q.order
	q.order = nil

	ran := 0
	for _, h := range batch {
		cb, ok := q.pending[h]
		if !ok {
			continue // canceled
		}
		delete(q.pending, h)
		cb(now)
		ran++
	}
	return ran
}

// Advance flushes n frames spaced by interval starting at start, returning
// the time of the last frame.
func (q *Queue) Advance(start time.Time, interval time.Duration, n int) time.Time {
	now := start
	for i := 0; i < n; i++ {
		now = now.Add(interval)
		q.Flush(now)
	}
	return now
}
