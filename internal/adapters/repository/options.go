// Package repository defines the profile store interface and errors.
package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithShardCount sets the number of shards in the store.
func WithShardCount(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithSessionLogLimit bounds the per-profile session log.
func WithSessionLogLimit(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.sessionLogLimit = n
		}
	}
}

// WithRecoveryLogLimit bounds the per-profile recovery log.
func WithRecoveryLogLimit(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.recoveryLogLimit = n
		}
	}
}

// WithPrimingLogLimit bounds the per-profile priming log.
func WithPrimingLogLimit(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.primingLogLimit = n
		}
	}
}
