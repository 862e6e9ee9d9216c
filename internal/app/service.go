// Package app provides the core engine service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mindloop/acumen/internal/adapters/mq/queue"
	"github.com/mindloop/acumen/internal/adapters/mq/worker"
	"github.com/mindloop/acumen/internal/adapters/repository"
	"github.com/mindloop/acumen/internal/domain/caps"
	"github.com/mindloop/acumen/internal/domain/composite"
	"github.com/mindloop/acumen/internal/domain/dedupe"
	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/internal/domain/progress"
	"github.com/mindloop/acumen/internal/domain/quality"
	"github.com/mindloop/acumen/internal/domain/recovery"
	"github.com/mindloop/acumen/internal/domain/routing"
	"github.com/mindloop/acumen/pkg/logger"
	"github.com/mindloop/acumen/pkg/metrics"
)

// engagementWindow is the rolling window feeding the behavioral
// engagement signals (session frequency, accuracy rate).
const engagementWindow = 7 * 24 * time.Hour

// EventReceipt reports the outcome of one training event. A cap
// shortfall is a degraded success: GrantedXP may be below RequestedXP
// and the caller must surface the granted amount, never assume the
// requested amount landed.
type EventReceipt struct {
	EventID     string
	Skill       model.Skill
	Category    string
	RequestedXP float64
	GrantedXP   float64
	Capped      bool
	Duplicate   bool
}

// Scores bundles every composite derived from one profile snapshot, so
// a single report is internally consistent even under concurrent writes.
type Scores struct {
	S1             float64
	S2             float64
	Sharpness      float64
	Readiness      float64
	SCI            float64
	CognitiveAge   float64
	RQ             float64
	REC            float64
	PerformanceAvg float64
	RQState        quality.State
}

// Service wires the engine components behind the API.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	deduper    dedupe.Deduper
	router     *routing.Router
	enforcer   *caps.Enforcer
	recovery   *recovery.Calculator
	quality    *quality.Engine
	aggregator *progress.Aggregator
	journal    *Journal
	queue      queue.Queue
	pool       *worker.Pool

	// Configuration
	shardCount            int
	dedupeSize            int
	journalQueueSize      int
	journalWorkerCount    int
	tierXP                map[string]float64
	minXP                 float64
	conversionFactor      float64
	dailySkillCap         float64
	weeklyCategoryCaps    map[string]float64
	defaultWeeklyCap      float64
	detoxTarget           float64
	weeklySessionTarget   int
	rqConsistencyWindow   int
	rqInactivityThreshold time.Duration
	rqDecayPerWeek        float64

	started bool
	now     func() time.Time
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		shardCount:            8,
		dedupeSize:            500_000,
		journalQueueSize:      100_000,
		journalWorkerCount:    4,
		minXP:                 2,
		conversionFactor:      0.1,
		dailySkillCap:         60,
		defaultWeeklyCap:      150,
		detoxTarget:           120,
		weeklySessionTarget:   10,
		rqConsistencyWindow:   10,
		rqInactivityThreshold: 14 * 24 * time.Hour,
		rqDecayPerWeek:        2,
		now:                   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the engine components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting skill engine")

	s.store = repository.NewMemStore(repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))

	routerOpts := []routing.Option{routing.WithMinXP(s.minXP)}
	for tier, xp := range s.tierXP {
		routerOpts = append(routerOpts, routing.WithTierXP(routing.Tier(tier), xp))
	}
	s.router = routing.New(routerOpts...)

	s.enforcer = caps.New(
		caps.WithDailySkillCap(s.dailySkillCap),
		caps.WithWeeklyCategoryCaps(s.weeklyCategoryCaps),
		caps.WithDefaultWeeklyCap(s.defaultWeeklyCap),
	)
	s.recovery = recovery.New(recovery.WithDetoxTarget(s.detoxTarget))
	s.quality = quality.New(
		quality.WithConsistencyWindow(s.rqConsistencyWindow),
		quality.WithInactivityThreshold(s.rqInactivityThreshold),
		quality.WithDecayPerWeek(s.rqDecayPerWeek),
	)
	s.aggregator = progress.New(s.enforcer.WeeklyCap)

	s.journal = NewJournal(0)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.journalQueueSize))
	s.pool = worker.NewPool(s.journalWorkerCount, s.queue, s.journal)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "skill engine started",
		logger.Int("shards", s.shardCount),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("journalWorkers", s.journalWorkerCount),
	)
	return nil
}

// Stop gracefully shuts down the engine.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping skill engine")
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	s.started = false
	s.logger.Info(ctx, "skill engine stopped")
}

func (s *Service) checkStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// RecordTrainingEvent routes, admits and applies one training event.
// Duplicates are absorbed as no-ops; routing failures reject the event
// before any state mutation.
func (s *Service) RecordTrainingEvent(ctx context.Context, ev model.TrainingEvent) (EventReceipt, error) {
	const op = "app.record_training_event"
	if err := s.checkStarted(); err != nil {
		return EventReceipt{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateEvent(ev); err != nil {
		metrics.RecordEventRejected("invalid")
		return EventReceipt{}, fmt.Errorf("%s: %w", op, err)
	}

	route, err := s.router.Route(ev.Drill)
	if err != nil {
		metrics.RecordEventRejected("unknown_route")
		s.logger.Warn(ctx, "rejected event with unknown drill",
			logger.String("eventID", ev.EventID),
			logger.String("drill", ev.Drill),
		)
		return EventReceipt{}, fmt.Errorf("%s: %w", op, err)
	}

	category := ev.Category
	if category == "" {
		category = route.Category
	}
	requested := s.router.RequestedXP(route, ev.Score)

	// Idempotency gate. A re-delivered event id acks as a duplicate and
	// leaves every ledger and skill value untouched.
	if s.deduper.SeenAndRecord(ctx, ev.EventID) {
		metrics.RecordEventDuplicate()
		receipt := EventReceipt{
			EventID:   ev.EventID,
			Skill:     route.Skill,
			Category:  category,
			Duplicate: true,
		}
		// Echo the original grant so a retrying client can still show
		// the user what landed. Zeroes only when the session log has
		// already rotated the record out.
		if p, err := s.store.Snapshot(ctx, ev.UserID); err == nil {
			for i := len(p.Sessions) - 1; i >= 0; i-- {
				if p.Sessions[i].EventID == ev.EventID {
					rec := p.Sessions[i]
					receipt.RequestedXP = rec.RequestedXP
					receipt.GrantedXP = rec.GrantedXP
					receipt.Capped = rec.GrantedXP < rec.RequestedXP
					break
				}
			}
		}
		return receipt, nil
	}

	at := ev.OccurredAt
	if at.IsZero() {
		at = s.now()
	}

	var grant caps.Grant
	start := time.Now()
	err = s.store.Apply(ctx, ev.UserID, func(p *model.Profile) error {
		// Cap-ledger increment and vector increment happen together
		// under the shard lock or not at all.
		grant = s.enforcer.Admit(p.Ledger, route.Skill, category, requested, at)
		s.enforcer.Record(p.Ledger, p.RawLedger, route.Skill, category, grant, at)
		p.Skills = p.Skills.WithXP(route.Skill, grant.Granted, s.conversionFactor)
		p.Sessions = append(p.Sessions, model.SessionRecord{
			EventID:     ev.EventID,
			Drill:       ev.Drill,
			Skill:       route.Skill,
			Category:    category,
			Score:       ev.Score,
			RequestedXP: requested,
			GrantedXP:   grant.Granted,
			At:          at,
		})
		if route.Priming != "" {
			p.Priming = append(p.Priming, model.PrimingRecord{Kind: route.Priming, At: at})
		}
		if (route.Skill.Slow() || route.Priming != "") && at.After(p.LastSlowActivity) {
			p.LastSlowActivity = at
		}
		return nil
	})
	metrics.RecordApplyLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		// Roll back the seen mark so the caller can retry.
		s.deduper.Unrecord(ctx, ev.EventID)
		return EventReceipt{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordEventApplied()
	metrics.RecordXP(grant.Requested, grant.Granted)
	if grant.Capped {
		metrics.RecordEventCapped()
	}

	// Best-effort journal append; saturation drops the entry, not the XP.
	s.queue.Enqueue(ctx, queue.Entry{
		UserID: ev.UserID,
		Record: model.SessionRecord{
			EventID:     ev.EventID,
			Drill:       ev.Drill,
			Skill:       route.Skill,
			Category:    category,
			Score:       ev.Score,
			RequestedXP: requested,
			GrantedXP:   grant.Granted,
			At:          at,
		},
	})

	return EventReceipt{
		EventID:     ev.EventID,
		Skill:       route.Skill,
		Category:    category,
		RequestedXP: grant.Requested,
		GrantedXP:   grant.Granted,
		Capped:      grant.Capped,
	}, nil
}

// RecordRecoveryActivity appends detox/walk minutes to the recovery
// log. Recovery activities never touch the skill vector.
func (s *Service) RecordRecoveryActivity(ctx context.Context, act model.RecoveryActivity) error {
	const op = "app.record_recovery_activity"
	if err := s.checkStarted(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(act.UserID) == "" || !act.Kind.Valid() || act.Minutes <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidRecovery)
	}

	at := act.OccurredAt
	if at.IsZero() {
		at = s.now()
	}
	err := s.store.Apply(ctx, act.UserID, func(p *model.Profile) error {
		p.Recovery = append(p.Recovery, model.RecoveryEntry{
			Kind:    act.Kind,
			Minutes: act.Minutes,
			At:      at,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordRecoveryActivity()
	return nil
}

// CompleteCalibration writes the baseline snapshot exactly once and
// seeds the skill vector from it.
func (s *Service) CompleteCalibration(ctx context.Context, userID string, b model.Baseline) error {
	const op = "app.complete_calibration"
	if err := s.checkStarted(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(userID) == "" || !validBaseline(b) {
		return fmt.Errorf("%s: %w", op, ErrInvalidBaseline)
	}

	err := s.store.Apply(ctx, userID, func(p *model.Profile) error {
		if p.Baseline != nil {
			return ErrAlreadyCalibrated
		}
		b.CapturedAt = s.now()
		p.Baseline = &b
		p.Skills = b.Vector()
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordCalibration()
	s.logger.Info(ctx, "baseline calibrated", logger.String("userID", userID))
	return nil
}

// GetSkillVector returns the current skill vector.
func (s *Service) GetSkillVector(ctx context.Context, userID string) (model.Vector, error) {
	const op = "app.get_skill_vector"
	if err := s.checkStarted(); err != nil {
		return model.Vector{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return model.Vector{}, fmt.Errorf("%s: %w", op, err)
	}
	return p.Skills, nil
}

// GetCompositeScores derives every composite from one profile snapshot.
// physio carries an optional external physiological score; when nil the
// no-physio readiness path runs. Requires a calibrated baseline.
func (s *Service) GetCompositeScores(ctx context.Context, userID string, physio *float64) (Scores, error) {
	const op = "app.get_composite_scores"
	if err := s.checkStarted(); err != nil {
		return Scores{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return Scores{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.Baseline == nil {
		return Scores{}, fmt.Errorf("%s: %w", op, ErrNotCalibrated)
	}

	now := s.now()
	v := p.Skills
	rec := s.recovery.FromLog(p.Recovery, now)

	readinessIn := composite.ReadinessInput{Vector: v, REC: rec}
	if physio != nil {
		readinessIn.Physio = *physio
		readinessIn.HasPhysio = true
	}

	sessions, accuracy := s.engagementSignals(p.Sessions, now)
	engagement := composite.BehavioralEngagement(composite.EngagementInput{
		SessionsThisWeek:    sessions,
		WeeklySessionTarget: s.weeklySessionTarget,
		AccuracyRate:        accuracy,
	})
	perfAvg := composite.PerformanceAvg(v)
	rq := s.quality.Score(v, p.Sessions, p.Priming, p.LastSlowActivity, now)

	return Scores{
		S1:             composite.S1(v),
		S2:             composite.S2(v),
		Sharpness:      composite.Sharpness(v, rec),
		Readiness:      composite.Readiness(readinessIn),
		SCI:            composite.SCI(perfAvg, engagement, rec),
		CognitiveAge:   composite.CognitiveAge(v, *p.Baseline),
		RQ:             rq.RQ,
		REC:            rec,
		PerformanceAvg: perfAvg,
		RQState:        rq.State,
	}, nil
}

// GetWeeklyProgress returns the current week's per-category load report.
func (s *Service) GetWeeklyProgress(ctx context.Context, userID string) (progress.Weekly, error) {
	const op = "app.get_weekly_progress"
	if err := s.checkStarted(); err != nil {
		return progress.Weekly{}, fmt.Errorf("%s: %w", op, err)
	}
	p, err := s.store.Snapshot(ctx, userID)
	if err != nil {
		return progress.Weekly{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.aggregator.Week(p.Ledger, p.RawLedger, s.now()), nil
}

// engagementSignals counts sessions and averages scores over the
// rolling engagement window.
func (s *Service) engagementSignals(sessions []model.SessionRecord, now time.Time) (count int, accuracy float64) {
	cutoff := now.Add(-engagementWindow)
	var sum float64
	for _, rec := range sessions {
		if rec.At.Before(cutoff) || rec.At.After(now) {
			continue
		}
		count++
		sum += rec.Score
	}
	if count > 0 {
		accuracy = sum / float64(count)
	}
	return count, accuracy
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"shards":  s.shardCount,
	}
	if s.started {
		ctx := context.Background()
		total, capped, granted := s.journal.Totals()
		stats["profiles"] = s.store.Count(ctx)
		stats["dedupeSize"] = s.deduper.Size()
		stats["journalQueueDepth"] = s.queue.Len(ctx)
		stats["journaledEvents"] = total
		stats["cappedEvents"] = capped
		stats["grantedXP"] = granted
		metrics.UpdateProfileCount(s.store.Count(ctx))
	}
	return stats
}

func validateEvent(ev model.TrainingEvent) error {
	switch {
	case strings.TrimSpace(ev.EventID) == "":
		return fmt.Errorf("%w: missing event id", ErrInvalidEvent)
	case strings.TrimSpace(ev.UserID) == "":
		return fmt.Errorf("%w: missing user id", ErrInvalidEvent)
	case strings.TrimSpace(ev.Drill) == "":
		return fmt.Errorf("%w: missing drill", ErrInvalidEvent)
	case ev.Score < 0 || ev.Score > 100:
		return fmt.Errorf("%w: score out of range", ErrInvalidEvent)
	}
	return nil
}

func validBaseline(b model.Baseline) bool {
	for _, v := range []float64{b.AE, b.RA, b.CT, b.IN} {
		if v < model.MinSkillValue || v > model.MaxSkillValue {
			return false
		}
	}
	return b.CognitiveAge > 0
}
