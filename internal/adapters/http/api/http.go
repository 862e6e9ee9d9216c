// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mindloop/acumen/internal/adapters/repository"
	"github.com/mindloop/acumen/internal/app"
	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/internal/domain/progress"
)

// Dependencies bundles the service operations the handlers need.
// Keeping an interface bundle here keeps the handler layer loosely
// coupled to the implementation in internal/app.
type Dependencies interface {
	RecordTrainingEvent(ctx context.Context, ev model.TrainingEvent) (app.EventReceipt, error)
	RecordRecoveryActivity(ctx context.Context, act model.RecoveryActivity) error
	CompleteCalibration(ctx context.Context, userID string, b model.Baseline) error
	GetSkillVector(ctx context.Context, userID string) (model.Vector, error)
	GetCompositeScores(ctx context.Context, userID string, physio *float64) (app.Scores, error)
	GetWeeklyProgress(ctx context.Context, userID string) (progress.Weekly, error)
}

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	eventsHandler      *EventsHandler
	recoveryHandler    *RecoveryHandler
	calibrationHandler *CalibrationHandler
	skillsHandler      *SkillsHandler
	scoresHandler      *ScoresHandler
	progressHandler    *ProgressHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		eventsHandler:      NewEventsHandler(deps),
		recoveryHandler:    NewRecoveryHandler(deps),
		calibrationHandler: NewCalibrationHandler(deps),
		skillsHandler:      NewSkillsHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		progressHandler:    NewProgressHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/v1/recovery", MetricsMiddleware(s.recoveryHandler.HandlePostRecovery, "recovery"))
	mux.HandleFunc("/v1/calibration", MetricsMiddleware(s.calibrationHandler.HandlePostCalibration, "calibration"))
	mux.HandleFunc("/v1/skills/", MetricsMiddleware(s.skillsHandler.HandleGetSkills, "skills"))
	mux.HandleFunc("/v1/scores/", MetricsMiddleware(s.scoresHandler.HandleGetScores, "scores"))
	mux.HandleFunc("/v1/progress/", MetricsMiddleware(s.progressHandler.HandleGetProgress, "progress"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrNotCalibrated):
		writeError(w, http.StatusConflict, "not_calibrated", err)
	case errors.Is(err, app.ErrAlreadyCalibrated):
		writeError(w, http.StatusConflict, "already_calibrated", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// userFromPath extracts the trailing path segment after prefix.
func userFromPath(r *http.Request, prefix string) (string, bool) {
	path := r.URL.Path
	if len(path) <= len(prefix) {
		return "", false
	}
	user := path[len(prefix):]
	for i := 0; i < len(user); i++ {
		if user[i] == '/' {
			return "", false
		}
	}
	return user, true
}
