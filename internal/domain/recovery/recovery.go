// Package recovery derives the normalized Recovery signal from
// detox/walk minutes. Recovery minutes never grant skill XP; the two
// streams are kept separate so recovery activity cannot be gamed into
// skill training.
package recovery

import (
	"time"

	"github.com/mindloop/acumen/internal/domain/model"
)

// Defaults for the rolling window and target.
const (
	defaultDetoxTarget = 120.0
	defaultWindow      = 7 * 24 * time.Hour

	// walkWeight discounts walk minutes against detox minutes.
	walkWeight = 0.5

	maxScore = 100.0
)

// Calculator computes REC over a rolling window.
type Calculator struct {
	detoxTarget float64
	window      time.Duration
}

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithDetoxTarget sets the weekly detox-minute target.
func WithDetoxTarget(minutes float64) Option {
	return func(c *Calculator) {
		if minutes > 0 {
			c.detoxTarget = minutes
		}
	}
}

// WithWindow sets the rolling window length.
func WithWindow(w time.Duration) Option {
	return func(c *Calculator) {
		if w > 0 {
			c.window = w
		}
	}
}

// New constructs a Calculator with defaults.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		detoxTarget: defaultDetoxTarget,
		window:      defaultWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WeeklyMinutes sums detox and walk minutes inside the rolling window
// ending at now. Entries outside the window count zero; stale inputs
// are not an error.
func (c *Calculator) WeeklyMinutes(entries []model.RecoveryEntry, now time.Time) (detox, walk float64) {
	cutoff := now.Add(-c.window)
	for _, e := range entries {
		if e.At.Before(cutoff) || e.At.After(now) {
			continue
		}
		switch e.Kind {
		case model.RecoveryDetox:
			detox += e.Minutes
		case model.RecoveryWalk:
			walk += e.Minutes
		}
	}
	return detox, walk
}

// Score computes REC in [0,100] from weekly minutes. Monotonic
// non-decreasing in both inputs, saturating at 100.
func (c *Calculator) Score(detoxMinutes, walkMinutes float64) float64 {
	if detoxMinutes < 0 {
		detoxMinutes = 0
	}
	if walkMinutes < 0 {
		walkMinutes = 0
	}
	input := detoxMinutes + walkWeight*walkMinutes
	rec := input / c.detoxTarget * 100
	if rec > maxScore {
		rec = maxScore
	}
	return rec
}

// FromLog computes REC directly from a profile's recovery log.
func (c *Calculator) FromLog(entries []model.RecoveryEntry, now time.Time) float64 {
	detox, walk := c.WeeklyMinutes(entries, now)
	return c.Score(detox, walk)
}
