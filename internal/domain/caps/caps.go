// Package caps enforces per-day and per-week XP ceilings.
package caps

import (
	"fmt"
	"time"

	"github.com/mindloop/acumen/internal/domain/model"
)

// Default ceilings. Configuration overrides both.
const (
	defaultDailySkillCap     = 60.0
	defaultWeeklyCategoryCap = 150.0
)

// Grant is the outcome of cap admission. A shortfall is a degraded
// success, not an error: the event is still recorded, the shortfall
// never reaches the skill vector.
type Grant struct {
	Requested float64
	Granted   float64
	Capped    bool
}

// Enforcer applies configured ceilings against a profile's ledger.
type Enforcer struct {
	dailySkillCap      float64
	weeklyCategoryCaps map[string]float64
	defaultWeeklyCap   float64
}

// Option applies a configuration option to the Enforcer.
type Option func(*Enforcer)

// WithDailySkillCap sets the per-skill, per-day XP ceiling.
func WithDailySkillCap(cap float64) Option {
	return func(e *Enforcer) {
		if cap > 0 {
			e.dailySkillCap = cap
		}
	}
}

// WithWeeklyCategoryCaps sets per-category weekly ceilings.
func WithWeeklyCategoryCaps(caps map[string]float64) Option {
	return func(e *Enforcer) {
		e.weeklyCategoryCaps = make(map[string]float64, len(caps))
		for category, cap := range caps {
			if cap > 0 {
				e.weeklyCategoryCaps[category] = cap
			}
		}
	}
}

// WithDefaultWeeklyCap sets the weekly ceiling for categories without
// an explicit entry.
func WithDefaultWeeklyCap(cap float64) Option {
	return func(e *Enforcer) {
		if cap > 0 {
			e.defaultWeeklyCap = cap
		}
	}
}

// New constructs an Enforcer with default ceilings.
func New(opts ...Option) *Enforcer {
	e := &Enforcer{
		dailySkillCap:      defaultDailySkillCap,
		weeklyCategoryCaps: make(map[string]float64),
		defaultWeeklyCap:   defaultWeeklyCategoryCap,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WeeklyCap returns the ceiling for a category.
func (e *Enforcer) WeeklyCap(category string) float64 {
	if cap, ok := e.weeklyCategoryCaps[category]; ok {
		return cap
	}
	return e.defaultWeeklyCap
}

// Admit computes granted XP under both the daily skill ceiling and the
// weekly category ceiling: max(0, min(requested, ceiling-used)) for
// each window. Callers must hold the profile write lock.
func (e *Enforcer) Admit(ledger map[string]float64, skill model.Skill, category string, requested float64, at time.Time) Grant {
	granted := requested
	if remaining := e.dailySkillCap - ledger[DayKey(skill, at)]; remaining < granted {
		granted = remaining
	}
	if remaining := e.WeeklyCap(category) - ledger[WeekKey(category, at)]; remaining < granted {
		granted = remaining
	}
	if granted < 0 {
		granted = 0
	}
	return Grant{Requested: requested, Granted: granted, Capped: granted < requested}
}

// Record books a grant into the profile's ledgers. The granted ledger
// backs cap admission and the capped weekly totals; the raw ledger
// keeps the full requested amount for analytics.
func (e *Enforcer) Record(ledger, raw map[string]float64, skill model.Skill, category string, g Grant, at time.Time) {
	ledger[DayKey(skill, at)] += g.Granted
	ledger[WeekKey(category, at)] += g.Granted
	raw[WeekKey(category, at)] += g.Requested
}

// DayKey keys the daily per-skill ledger window.
func DayKey(skill model.Skill, t time.Time) string {
	return fmt.Sprintf("day|%s|%s", t.UTC().Format("2006-01-02"), skill)
}

// WeekKey keys the weekly per-category ledger window.
func WeekKey(category string, t time.Time) string {
	return fmt.Sprintf("week|%s|%s", WeekOf(t), category)
}

// WeekOf formats the ISO week containing t, e.g. "2026-W34".
func WeekOf(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
