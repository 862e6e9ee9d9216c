package app

import (
	"time"

	"github.com/mindloop/acumen/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShardCount sets the number of profile store shards.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithJournalQueueSize bounds the analytics journal queue.
func WithJournalQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.journalQueueSize = n
		}
	}
}

// WithJournalWorkerCount sets the number of journal workers.
func WithJournalWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.journalWorkerCount = n
		}
	}
}

// WithTierXP overrides base XP amounts per difficulty tier, keyed
// low/medium/high.
func WithTierXP(tiers map[string]float64) Option {
	return func(s *Service) {
		s.tierXP = tiers
	}
}

// WithMinXP sets the floor applied after score scaling.
func WithMinXP(xp float64) Option {
	return func(s *Service) {
		if xp >= 0 {
			s.minXP = xp
		}
	}
}

// WithConversionFactor sets the granted-XP to skill-delta conversion.
func WithConversionFactor(f float64) Option {
	return func(s *Service) {
		if f > 0 {
			s.conversionFactor = f
		}
	}
}

// WithDailySkillCap sets the per-skill daily XP ceiling.
func WithDailySkillCap(cap float64) Option {
	return func(s *Service) {
		if cap > 0 {
			s.dailySkillCap = cap
		}
	}
}

// WithWeeklyCategoryCaps sets per-category weekly XP ceilings.
func WithWeeklyCategoryCaps(caps map[string]float64) Option {
	return func(s *Service) {
		s.weeklyCategoryCaps = caps
	}
}

// WithDefaultWeeklyCap sets the weekly ceiling for unlisted categories.
func WithDefaultWeeklyCap(cap float64) Option {
	return func(s *Service) {
		if cap > 0 {
			s.defaultWeeklyCap = cap
		}
	}
}

// WithDetoxTarget sets the weekly detox-minute target for REC.
func WithDetoxTarget(minutes float64) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.detoxTarget = minutes
		}
	}
}

// WithWeeklySessionTarget sets the engagement frequency target.
func WithWeeklySessionTarget(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.weeklySessionTarget = n
		}
	}
}

// WithRQConsistencyWindow sets the slow-session window for the
// reasoning-quality consistency term.
func WithRQConsistencyWindow(n int) Option {
	return func(s *Service) {
		if n > 1 {
			s.rqConsistencyWindow = n
		}
	}
}

// WithRQInactivityThreshold sets how long without slow-system activity
// before reasoning quality starts decaying.
func WithRQInactivityThreshold(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.rqInactivityThreshold = d
		}
	}
}

// WithRQDecayPerWeek sets the reasoning-quality decay rate.
func WithRQDecayPerWeek(rate float64) Option {
	return func(s *Service) {
		if rate > 0 {
			s.rqDecayPerWeek = rate
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
