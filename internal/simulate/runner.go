package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mindloop/acumen/pkg/logger"
)

// Config controls a simulation run.
type Config struct {
	BaseURL       string
	Users         int
	EventsPerUser int
	Resubmit      int // events re-sent verbatim to exercise the idempotency gate
	Timeout       time.Duration
}

// Stats summarizes a run.
type Stats struct {
	Applied    int
	Duplicates int
	Capped     int
	Rejected   int
}

// Runner drives generated traffic against the engine API.
type Runner struct {
	cfg    Config
	client *http.Client
	logger logger.Logger
}

// NewRunner creates a runner for the given config.
func NewRunner(cfg Config) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Runner{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Get().Named("simulate"),
	}
}

// Run calibrates each user, submits the event stream and replays a
// slice of it, then reports the totals.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	users := GenerateUsers(r.cfg.Users)
	r.logger.Info(ctx, "calibrating users", logger.Int("users", len(users)))
	for _, user := range users {
		if err := r.postCalibration(ctx, GenerateBaseline(user)); err != nil {
			return Stats{}, fmt.Errorf("calibration failed: %w", err)
		}
	}

	events := GenerateEvents(users, r.cfg.EventsPerUser)
	r.logger.Info(ctx, "submitting events", logger.Int("events", len(events)))

	var stats Stats
	for _, ev := range events {
		if err := r.postEvent(ctx, ev, &stats); err != nil {
			return stats, err
		}
	}

	// Replay the head of the stream; every replay must ack as duplicate.
	replay := r.cfg.Resubmit
	if replay > len(events) {
		replay = len(events)
	}
	for _, ev := range events[:replay] {
		if err := r.postEvent(ctx, ev, &stats); err != nil {
			return stats, err
		}
	}

	r.logger.Info(ctx, "simulation finished",
		logger.Int("applied", stats.Applied),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("capped", stats.Capped),
		logger.Int("rejected", stats.Rejected),
	)
	return stats, nil
}

func (r *Runner) postCalibration(ctx context.Context, b Baseline) error {
	payload := map[string]any{
		"user_id":       b.UserID,
		"ae":            b.AE,
		"ra":            b.RA,
		"ct":            b.CT,
		"in":            b.IN,
		"cognitive_age": b.CognitiveAge,
	}
	status, err := r.post(ctx, "/v1/calibration", payload, nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("calibration returned status %d", status)
	}
	return nil
}

func (r *Runner) postEvent(ctx context.Context, ev Event, stats *Stats) error {
	payload := map[string]any{
		"event_id":    ev.EventID,
		"user_id":     ev.UserID,
		"drill":       ev.Drill,
		"score":       ev.Score,
		"occurred_at": ev.OccurredAt.Format(time.RFC3339),
	}
	var resp struct {
		Status    string `json:"status"`
		Duplicate bool   `json:"duplicate"`
		Capped    bool   `json:"capped"`
	}
	status, err := r.post(ctx, "/v1/events", payload, &resp)
	if err != nil {
		return err
	}
	switch {
	case status == http.StatusOK && resp.Duplicate:
		stats.Duplicates++
	case status == http.StatusOK:
		stats.Applied++
		if resp.Capped {
			stats.Capped++
		}
	default:
		stats.Rejected++
	}
	return nil
}

func (r *Runner) post(ctx context.Context, path string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		_ = json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, nil
}
