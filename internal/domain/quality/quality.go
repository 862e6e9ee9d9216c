// Package quality computes the reasoning-quality score: a slow-system
// blend of current capacity, rolling consistency and task priming, with
// lazy time-based decay. There is no background job; decay is derived
// from timestamps at read time.
package quality

import (
	"math"
	"time"

	"github.com/mindloop/acumen/internal/domain/model"
)

// Blend weights: 50% current slow-system core (CT and IN at 25% each),
// 30% consistency, 20% priming.
const (
	s2CoreWeight      = 0.5
	consistencyWeight = 0.3
	primingWeight     = 0.2
)

// Defaults for the consistency window, priming decay and inactivity decay.
const (
	defaultConsistencyWindow = 10
	neutralConsistency       = 50.0
	stddevPenalty            = 2.0

	defaultPrimingWindow = 30 * 24 * time.Hour
	primingCap           = 100.0

	defaultInactivityThreshold = 14 * 24 * time.Hour
	defaultDecayPerWeek        = 2.0

	// The decayed score never drops below the current slow-system core
	// minus this offset.
	decayFloorOffset = 10.0
)

// Base priming contributions before recency decay.
var primingBase = map[model.PrimingKind]float64{
	model.PrimingArticle: 6,
	model.PrimingPodcast: 8,
	model.PrimingBook:    12,
}

// State is the engine's lazily derived activity state.
type State string

// Activity states. A qualifying event (slow-system session or priming
// completion) always re-enters Active.
const (
	StateActive   State = "active"
	StateDecaying State = "decaying"
)

// Result carries the reasoning-quality score and its parts.
type Result struct {
	RQ          float64
	S2Core      float64
	Consistency float64
	Priming     float64
	State       State
}

// Engine computes reasoning quality.
type Engine struct {
	consistencyWindow   int
	primingWindow       time.Duration
	inactivityThreshold time.Duration
	decayPerWeek        float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConsistencyWindow sets how many recent slow-system sessions feed
// the consistency term.
func WithConsistencyWindow(n int) Option {
	return func(e *Engine) {
		if n > 1 {
			e.consistencyWindow = n
		}
	}
}

// WithInactivityThreshold sets how long without qualifying activity
// before decay starts.
func WithInactivityThreshold(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.inactivityThreshold = d
		}
	}
}

// WithDecayPerWeek sets the decay rate applied per week past the
// inactivity threshold.
func WithDecayPerWeek(rate float64) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.decayPerWeek = rate
		}
	}
}

// WithPrimingWindow sets the recency window over which a priming task
// decays to zero contribution.
func WithPrimingWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.primingWindow = d
		}
	}
}

// New constructs an Engine with defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		consistencyWindow:   defaultConsistencyWindow,
		primingWindow:       defaultPrimingWindow,
		inactivityThreshold: defaultInactivityThreshold,
		decayPerWeek:        defaultDecayPerWeek,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score derives the reasoning-quality result from the profile snapshot.
// lastActivity is the timestamp of the latest qualifying event; a zero
// value means no qualifying history and suppresses decay.
func (e *Engine) Score(v model.Vector, sessions []model.SessionRecord, priming []model.PrimingRecord, lastActivity, now time.Time) Result {
	s2Core := (v.CT + v.IN) / 2
	consistency := e.consistency(sessions)
	primingScore := e.primingScore(priming, now)

	rq := s2CoreWeight*s2Core + consistencyWeight*consistency + primingWeight*primingScore
	state := StateActive

	if !lastActivity.IsZero() {
		if idle := now.Sub(lastActivity) - e.inactivityThreshold; idle > 0 {
			state = StateDecaying
			weeks := idle.Hours() / (7 * 24)
			decayed := rq - e.decayPerWeek*weeks
			if floor := s2Core - decayFloorOffset; decayed < floor {
				decayed = floor
			}
			if decayed < rq {
				rq = decayed
			}
		}
	}
	if rq < 0 {
		rq = 0
	}

	return Result{
		RQ:          rq,
		S2Core:      s2Core,
		Consistency: consistency,
		Priming:     primingScore,
		State:       state,
	}
}

// consistency measures stability over the last N slow-system session
// scores: lower variance scores higher. Fewer than two samples yield a
// neutral midpoint.
func (e *Engine) consistency(sessions []model.SessionRecord) float64 {
	var scores []float64
	for i := len(sessions) - 1; i >= 0 && len(scores) < e.consistencyWindow; i-- {
		if sessions[i].Skill.Slow() {
			scores = append(scores, sessions[i].Score)
		}
	}
	if len(scores) < 2 {
		return neutralConsistency
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	variance /= float64(len(scores))

	c := 100 - stddevPenalty*math.Sqrt(variance)
	if c < 0 {
		c = 0
	}
	return c
}

// primingScore sums recency-decayed contributions: each completion adds
// its base weight scaled linearly down to zero over the priming window,
// capped in total.
func (e *Engine) primingScore(priming []model.PrimingRecord, now time.Time) float64 {
	var total float64
	for _, p := range priming {
		age := now.Sub(p.At)
		if age < 0 || age >= e.primingWindow {
			continue
		}
		base := primingBase[p.Kind]
		total += base * (1 - age.Seconds()/e.primingWindow.Seconds())
	}
	if total > primingCap {
		total = primingCap
	}
	return total
}
