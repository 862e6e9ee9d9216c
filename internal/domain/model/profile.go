// Package model contains domain models passed between layers.
package model

import "time"

// Baseline is the immutable calibration snapshot. It is written exactly
// once and all improvement math references it.
type Baseline struct {
	AE           float64
	RA           float64
	CT           float64
	IN           float64
	CognitiveAge float64
	CapturedAt   time.Time
}

// Vector returns the baseline skill values as a Vector.
func (b Baseline) Vector() Vector {
	return Vector{AE: b.AE, RA: b.RA, CT: b.CT, IN: b.IN}
}

// SessionRecord is the durable trace of one applied training event.
// Events that hit a cap are still recorded with GrantedXP < RequestedXP.
type SessionRecord struct {
	EventID     string
	Drill       string
	Skill       Skill
	Category    string
	Score       float64
	RequestedXP float64
	GrantedXP   float64
	At          time.Time
}

// RecoveryEntry is one recorded detox/walk activity.
type RecoveryEntry struct {
	Kind    RecoveryKind
	Minutes float64
	At      time.Time
}

// PrimingRecord is one completed priming task (article/podcast/book).
type PrimingRecord struct {
	Kind PrimingKind
	At   time.Time
}

// Profile is the per-user aggregate. All mutation goes through the
// store's atomic Apply entry point; reads work on deep copies.
type Profile struct {
	UserID   string
	Skills   Vector
	Baseline *Baseline

	// Ledger counts granted XP per (window, scope) key; RawLedger counts
	// requested XP, including amounts the caps refused.
	Ledger    map[string]float64
	RawLedger map[string]float64

	Sessions []SessionRecord
	Recovery []RecoveryEntry
	Priming  []PrimingRecord

	// LastSlowActivity drives reasoning-quality inactivity decay.
	LastSlowActivity time.Time
}

// NewProfile creates an empty profile for a user.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:    userID,
		Ledger:    make(map[string]float64),
		RawLedger: make(map[string]float64),
	}
}

// Clone returns a deep copy for lock-free reads.
func (p *Profile) Clone() *Profile {
	c := &Profile{
		UserID:           p.UserID,
		Skills:           p.Skills,
		Ledger:           make(map[string]float64, len(p.Ledger)),
		RawLedger:        make(map[string]float64, len(p.RawLedger)),
		Sessions:         append([]SessionRecord(nil), p.Sessions...),
		Recovery:         append([]RecoveryEntry(nil), p.Recovery...),
		Priming:          append([]PrimingRecord(nil), p.Priming...),
		LastSlowActivity: p.LastSlowActivity,
	}
	if p.Baseline != nil {
		b := *p.Baseline
		c.Baseline = &b
	}
	for k, v := range p.Ledger {
		c.Ledger[k] = v
	}
	for k, v := range p.RawLedger {
		c.RawLedger[k] = v
	}
	return c
}
