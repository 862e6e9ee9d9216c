// Package model contains domain models passed between layers.
package model

import "time"

// TrainingEvent represents a completed game or task session submitted
// by clients. Fields mirror the API schema for /v1/events.
type TrainingEvent struct {
	EventID         string    // unique id for idempotency
	UserID          string    // subject identifier
	Drill           string    // drill/task identifier used for routing
	Score           float64   // session score, 0-100
	Category        string    // weekly-aggregation category; defaulted from the route when empty
	DurationSeconds int       // session length
	OccurredAt      time.Time // client-reported completion time
}

// RecoveryKind distinguishes recovery activity types.
type RecoveryKind string

// Recovery activity types. Recovery minutes never grant skill XP.
const (
	RecoveryDetox RecoveryKind = "detox"
	RecoveryWalk  RecoveryKind = "walk"
)

// Valid reports whether k is a known recovery kind.
func (k RecoveryKind) Valid() bool {
	return k == RecoveryDetox || k == RecoveryWalk
}

// RecoveryActivity represents detox or walk minutes submitted by clients.
type RecoveryActivity struct {
	UserID     string
	Kind       RecoveryKind
	Minutes    float64
	OccurredAt time.Time
}

// PrimingKind distinguishes task-priming completion types feeding the
// reasoning-quality score.
type PrimingKind string

// Priming task types.
const (
	PrimingArticle PrimingKind = "article"
	PrimingPodcast PrimingKind = "podcast"
	PrimingBook    PrimingKind = "book"
)
