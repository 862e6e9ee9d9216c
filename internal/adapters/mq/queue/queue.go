// Package queue provides the bounded in-memory queue feeding the
// analytics journal. The queue carries no authoritative state; entries
// dropped under saturation cost a journal line, never XP.
package queue

import (
	"context"
	"sync"

	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/pkg/metrics"
)

const defaultCapacity = 100_000

// Entry is one applied event headed for the journal.
type Entry struct {
	UserID string
	Record model.SessionRecord
}

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds an entry. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, e Entry) bool

	// Dequeue returns a channel receiving entries as they arrive. The
	// channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Entry

	// Len returns the current number of queued entries.
	Len(ctx context.Context) int

	// Close stops the queue; no further enqueues are accepted.
	Close() error
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	entries chan Entry
	cap     int
	mu      sync.RWMutex
	closed  bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity bounds the queue.
func WithCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.cap = n
		}
	}
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{cap: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.entries = make(chan Entry, q.cap)
	metrics.UpdateJournalQueueDepth(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Entry) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordJournalDropped()
		return false
	}
	select {
	case q.entries <- e:
		metrics.UpdateJournalQueueDepth(len(q.entries))
		return true
	case <-ctx.Done():
		metrics.RecordJournalDropped()
		return false
	default:
		metrics.RecordJournalDropped()
		return false
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Entry {
	out := make(chan Entry)
	go func() {
		defer close(out)
		for e := range q.entries {
			select {
			case out <- e:
				metrics.UpdateJournalQueueDepth(len(q.entries))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.entries)
}

// Close implements Queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.entries)
	q.closed = true
	return nil
}
