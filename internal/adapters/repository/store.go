// Package repository defines the profile store interface and errors.
package repository

import (
	"context"

	"github.com/mindloop/acumen/internal/domain/model"
)

// Store provides access to per-user profile state.
type Store interface {
	// Apply runs fn against the user's profile under the shard write
	// lock, creating the profile on first use. fn must either complete
	// its mutation or return an error before mutating; the store gives
	// each event one atomic read-modify-write.
	Apply(ctx context.Context, userID string, fn func(p *model.Profile) error) error

	// Snapshot returns a deep copy of the profile for lock-free derived
	// reads. Returns ErrNotFound for unknown users.
	Snapshot(ctx context.Context, userID string) (*model.Profile, error)

	// Count returns the number of profiles tracked.
	Count(ctx context.Context) int
}
