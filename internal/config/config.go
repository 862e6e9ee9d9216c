// Package config defines engine configuration structures and loading.
//
// Conventions follow the rest of the codebase: defaults come from
// New, Load layers an optional YAML file and ACUMEN_-prefixed env vars
// on top, and ceilings/targets are configuration, never computed.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// ShardCount configures the number of shards in the profile store.
	ShardCount int `koanf:"shard_count"`

	// DedupeSize bounds the idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// JournalQueueSize and JournalWorkerCount size the analytics
	// journal pipeline.
	JournalQueueSize   int `koanf:"journal_queue_size"`
	JournalWorkerCount int `koanf:"journal_worker_count"`

	// TierXP maps difficulty tiers (low/medium/high) to base XP.
	TierXP map[string]float64 `koanf:"tier_xp"`

	// MinXP floors the score-scaled XP of any admitted event.
	MinXP float64 `koanf:"min_xp"`

	// ConversionFactor converts granted XP into skill-value delta.
	ConversionFactor float64 `koanf:"conversion_factor"`

	// DailySkillCapXP ceilings XP per skill per day.
	DailySkillCapXP float64 `koanf:"daily_skill_cap_xp"`

	// WeeklyCategoryCaps ceilings XP per category per week; categories
	// without an entry use DefaultWeeklyCategoryCap.
	WeeklyCategoryCaps       map[string]float64 `koanf:"weekly_category_caps"`
	DefaultWeeklyCategoryCap float64            `koanf:"default_weekly_category_cap"`

	// DetoxTargetMinutes is the weekly detox target normalizing REC.
	DetoxTargetMinutes float64 `koanf:"detox_target_minutes"`

	// WeeklySessionTarget feeds the behavioral-engagement frequency score.
	WeeklySessionTarget int `koanf:"weekly_session_target"`

	// Reasoning-quality tuning.
	RQConsistencyWindow int     `koanf:"rq_consistency_window"`
	RQInactivityDays    int     `koanf:"rq_inactivity_days"`
	RQDecayPerWeek      float64 `koanf:"rq_decay_per_week"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8090",
		ShardCount:         8,
		DedupeSize:         500_000,
		JournalQueueSize:   100_000,
		JournalWorkerCount: runtime.NumCPU(),
		TierXP: map[string]float64{
			"low":    10,
			"medium": 20,
			"high":   30,
		},
		MinXP:            2,
		ConversionFactor: 0.1,
		DailySkillCapXP:  60,
		WeeklyCategoryCaps: map[string]float64{
			"focus":   150,
			"speed":   150,
			"logic":   150,
			"insight": 150,
			"study":   100,
		},
		DefaultWeeklyCategoryCap: 150,
		DetoxTargetMinutes:       120,
		WeeklySessionTarget:      10,
		RQConsistencyWindow:      10,
		RQInactivityDays:         14,
		RQDecayPerWeek:           2,
	}
}
