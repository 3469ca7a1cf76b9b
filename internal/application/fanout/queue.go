package fanout

import "sync"

// Queue is a thread-safe FIFO written from native callbacks and drained on
// the main thread.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Push appends v.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// Drain removes and returns everything queued, oldest first.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	out := q.items
	q.items = nil
	q.mu.Unlock()
	return out
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Stream holds the events published during the current tick. Any number of
// readers may read it; the owner resets it before publishing the next
// tick's batch. A Stream is main-thread only.
type Stream[T any] struct {
	items []T
}

// Publish appends v to this tick's batch.
func (s *Stream[T]) Publish(v T) {
	s.items = append(s.items, v)
}

// Read returns this tick's events in publish order. The slice must not be
// modified.
func (s *Stream[T]) Read() []T {
	if s == nil {
		return nil
	}
	return s.items
}

// Len returns the number of events in this tick's batch.
func (s *Stream[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Reset discards this tick's batch.
func (s *Stream[T]) Reset() {
	s.items = nil
}
