// Package repository defines the profile store interface and errors.
package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/pkg/metrics"
)

// Defaults for sharding and per-profile log bounds.
const (
	defaultShardCount       = 8
	defaultSessionLogLimit  = 500
	defaultRecoveryLogLimit = 200
	defaultPrimingLogLimit  = 200
)

// shard holds a slice of the user space behind one lock.
type shard struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile
}

// MemStore is a sharded in-memory Store. Sharding keeps unrelated
// users off each other's locks under concurrent submissions.
type MemStore struct {
	shards           []*shard
	shardCount       int
	sessionLogLimit  int
	recoveryLogLimit int
	primingLogLimit  int
	count            atomic.Int64
}

// NewMemStore creates a sharded in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		shardCount:       defaultShardCount,
		sessionLogLimit:  defaultSessionLogLimit,
		recoveryLogLimit: defaultRecoveryLogLimit,
		primingLogLimit:  defaultPrimingLogLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{profiles: make(map[string]*model.Profile)}
	}
	return s
}

func (s *MemStore) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// Apply implements Store.
func (s *MemStore) Apply(ctx context.Context, userID string, fn func(p *model.Profile) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("apply cancelled: %w", err)
	}
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	p, ok := sh.profiles[userID]
	if !ok {
		p = model.NewProfile(userID)
		sh.profiles[userID] = p
		metrics.UpdateProfileCount(int(s.count.Add(1)))
	}
	if err := fn(p); err != nil {
		return err
	}
	s.trim(p)
	return nil
}

// trim bounds the append-only logs. Oldest entries go first; the cap
// ledger is not trimmed (window keys keep it naturally small).
func (s *MemStore) trim(p *model.Profile) {
	if n := len(p.Sessions) - s.sessionLogLimit; n > 0 {
		p.Sessions = append(p.Sessions[:0:0], p.Sessions[n:]...)
	}
	if n := len(p.Recovery) - s.recoveryLogLimit; n > 0 {
		p.Recovery = append(p.Recovery[:0:0], p.Recovery[n:]...)
	}
	if n := len(p.Priming) - s.primingLogLimit; n > 0 {
		p.Priming = append(p.Priming[:0:0], p.Priming[n:]...)
	}
}

// Snapshot implements Store.
func (s *MemStore) Snapshot(ctx context.Context, userID string) (*model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("snapshot cancelled: %w", err)
	}
	sh := s.shardFor(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	p, ok := sh.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", userID, ErrNotFound)
	}
	return p.Clone(), nil
}

// Count implements Store.
func (s *MemStore) Count(_ context.Context) int {
	return int(s.count.Load())
}
