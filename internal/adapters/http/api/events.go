// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mindloop/acumen/internal/app"
	"github.com/mindloop/acumen/internal/domain/model"
	"github.com/mindloop/acumen/internal/domain/routing"
)

// EventsHandler handles training-event submissions.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the API schema for POST /v1/events.
type eventRequest struct {
	EventID         string  `json:"event_id"`
	UserID          string  `json:"user_id"`
	Drill           string  `json:"drill"`
	Score           float64 `json:"score"`
	Category        string  `json:"category,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	OccurredAt      string  `json:"occurred_at"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(e.Drill) == "":
		return errors.New("missing drill")
	case e.Score < 0 || e.Score > 100:
		return errors.New("score must be in [0,100]")
	case strings.TrimSpace(e.OccurredAt) == "":
		return errors.New("missing occurred_at")
	}
	if _, err := time.Parse(time.RFC3339, e.OccurredAt); err != nil {
		return errors.New("invalid occurred_at; must be RFC3339")
	}
	return nil
}

// eventResponse reports the granted amount so the client never assumes
// the requested XP landed.
type eventResponse struct {
	Status      string  `json:"status"`
	Duplicate   bool    `json:"duplicate"`
	Skill       string  `json:"skill,omitempty"`
	Category    string  `json:"category,omitempty"`
	RequestedXP float64 `json:"requested_xp"`
	GrantedXP   float64 `json:"granted_xp"`
	Capped      bool    `json:"capped"`
}

// HandlePostEvent handles POST /v1/events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	occurredAt, _ := time.Parse(time.RFC3339, req.OccurredAt)

	receipt, err := h.deps.RecordTrainingEvent(r.Context(), model.TrainingEvent{
		EventID:         req.EventID,
		UserID:          req.UserID,
		Drill:           req.Drill,
		Score:           req.Score,
		Category:        req.Category,
		DurationSeconds: req.DurationSeconds,
		OccurredAt:      occurredAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, routing.ErrUnknownRoute):
			writeError(w, http.StatusBadRequest, "unknown_route", err)
		case errors.Is(err, app.ErrInvalidEvent):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		default:
			writeServiceError(w, err)
		}
		return
	}

	status := "applied"
	if receipt.Duplicate {
		status = "duplicate"
	}
	writeJSON(w, http.StatusOK, eventResponse{
		Status:      status,
		Duplicate:   receipt.Duplicate,
		Skill:       string(receipt.Skill),
		Category:    receipt.Category,
		RequestedXP: receipt.RequestedXP,
		GrantedXP:   receipt.GrantedXP,
		Capped:      receipt.Capped,
	})
}
