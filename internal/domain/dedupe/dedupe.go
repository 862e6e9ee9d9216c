// Package dedupe tracks seen event ids for at-most-once processing.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event ids. Re-delivered ids are absorbed as
// no-ops, never surfaced as failures.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen. This is the only
	// idempotency gate in front of state mutation.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an id so the event can be retried. Used when an
	// event was marked seen but failed downstream of the gate.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int64
}

const defaultMaxSize = 50_000

// memDeduper implements Deduper with a map plus a FIFO ring of ids for
// bounded eviction. maxSize <= 0 disables eviction.
type memDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	head    int // next slot to overwrite
	maxSize int
}

// Option applies a configuration option to the deduper.
type Option func(*memDeduper)

// WithMaxSize bounds the number of tracked ids. The oldest ids are
// evicted first. A non-positive size keeps every id.
func WithMaxSize(n int) Option {
	return func(d *memDeduper) {
		d.maxSize = n
	}
}

// New creates an in-memory deduper.
func New(opts ...Option) Deduper {
	d := &memDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *memDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		if old := d.ring[d.head]; old != "" {
			delete(d.seen, old)
		}
		d.ring[d.head] = id
		d.head = (d.head + 1) % d.maxSize
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *memDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	// Clear the ring slot too: a re-recorded id would otherwise occupy
	// a second slot, and evicting the stale first slot would delete the
	// live entry early. Unrecord only runs on the apply failure path,
	// so the linear scan is off the hot path.
	for i := range d.ring {
		if d.ring[i] == id {
			d.ring[i] = ""
			break
		}
	}
}

func (d *memDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
