// Package routing maps drill and task identifiers to skills and XP.
package routing

import (
	"fmt"
	"math"

	"github.com/mindloop/acumen/internal/domain/model"
)

// Tier is the difficulty tier of a drill, selecting its base XP.
type Tier string

// Difficulty tiers.
const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Default XP amounts per tier and the floor applied after score scaling.
const (
	defaultLowXP    = 10.0
	defaultMediumXP = 20.0
	defaultHighXP   = 30.0
	defaultMinXP    = 2.0
)

// Route is the resolved destination for a drill identifier. Every valid
// identifier maps to exactly one skill; priming tasks additionally feed
// the reasoning-quality score.
type Route struct {
	Drill    string
	Skill    model.Skill
	Tier     Tier
	Category string
	Priming  model.PrimingKind // empty when the drill is not a priming task
}

// defaultTable is the built-in drill catalog. Identifiers not present
// here are rejected, never defaulted to a skill.
var defaultTable = map[string]Route{
	// Attentional efficiency
	"n-back":       {Skill: model.SkillAttention, Tier: TierHigh, Category: "focus"},
	"stroop-match": {Skill: model.SkillAttention, Tier: TierMedium, Category: "focus"},
	"schulte-grid": {Skill: model.SkillAttention, Tier: TierMedium, Category: "focus"},
	"focus-flow":   {Skill: model.SkillAttention, Tier: TierLow, Category: "focus"},

	// Rapid association
	"word-sprint":  {Skill: model.SkillAssociation, Tier: TierMedium, Category: "speed"},
	"pair-match":   {Skill: model.SkillAssociation, Tier: TierLow, Category: "speed"},
	"speed-sort":   {Skill: model.SkillAssociation, Tier: TierMedium, Category: "speed"},
	"trail-switch": {Skill: model.SkillAssociation, Tier: TierHigh, Category: "speed"},

	// Critical thinking
	"logic-grid":     {Skill: model.SkillCritical, Tier: TierHigh, Category: "logic"},
	"syllogism":      {Skill: model.SkillCritical, Tier: TierMedium, Category: "logic"},
	"argument-audit": {Skill: model.SkillCritical, Tier: TierMedium, Category: "logic"},
	"article":        {Skill: model.SkillCritical, Tier: TierLow, Category: "study", Priming: model.PrimingArticle},
	"book-chapter":   {Skill: model.SkillCritical, Tier: TierMedium, Category: "study", Priming: model.PrimingBook},

	// Insight
	"remote-associates": {Skill: model.SkillInsight, Tier: TierHigh, Category: "insight"},
	"rebus":             {Skill: model.SkillInsight, Tier: TierLow, Category: "insight"},
	"riddle-path":       {Skill: model.SkillInsight, Tier: TierMedium, Category: "insight"},
	"podcast":           {Skill: model.SkillInsight, Tier: TierLow, Category: "study", Priming: model.PrimingPodcast},
}

// Router resolves drill identifiers and computes requested XP.
type Router struct {
	table  map[string]Route
	tierXP map[Tier]float64
	minXP  float64
}

// Option applies a configuration option to the Router.
type Option func(*Router)

// WithTierXP overrides the base XP for a tier.
func WithTierXP(tier Tier, xp float64) Option {
	return func(r *Router) {
		if xp > 0 {
			r.tierXP[tier] = xp
		}
	}
}

// WithMinXP overrides the XP floor applied after score scaling.
func WithMinXP(xp float64) Option {
	return func(r *Router) {
		if xp >= 0 {
			r.minXP = xp
		}
	}
}

// WithDrill registers or replaces a drill route. Used to extend the
// catalog from configuration without touching the built-in table.
func WithDrill(drill string, route Route) Option {
	return func(r *Router) {
		if drill != "" && route.Skill.Valid() {
			route.Drill = drill
			r.table[drill] = route
		}
	}
}

// New constructs a Router over the built-in catalog.
func New(opts ...Option) *Router {
	r := &Router{
		table: make(map[string]Route, len(defaultTable)),
		tierXP: map[Tier]float64{
			TierLow:    defaultLowXP,
			TierMedium: defaultMediumXP,
			TierHigh:   defaultHighXP,
		},
		minXP: defaultMinXP,
	}
	for drill, route := range defaultTable {
		route.Drill = drill
		r.table[drill] = route
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route resolves a drill identifier. Unknown identifiers fail with
// ErrUnknownRoute; callers must not fall back to a default skill.
func (r *Router) Route(drill string) (Route, error) {
	route, ok := r.table[drill]
	if !ok {
		return Route{}, fmt.Errorf("drill %q: %w", drill, ErrUnknownRoute)
	}
	return route, nil
}

// RequestedXP computes the XP a routed event asks for: the tier base
// scaled by the session score fraction, floored at the minimum XP.
func (r *Router) RequestedXP(route Route, score float64) float64 {
	base := r.tierXP[route.Tier]
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	xp := math.Round(base * score / 100)
	if xp < r.minXP {
		xp = r.minXP
	}
	return xp
}

// Drills returns the known drill identifiers, for diagnostics.
func (r *Router) Drills() []string {
	out := make([]string, 0, len(r.table))
	for drill := range r.table {
		out = append(out, drill)
	}
	return out
}
