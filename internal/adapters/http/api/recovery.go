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
)

// RecoveryHandler handles detox/walk submissions.
type RecoveryHandler struct {
	deps Dependencies
}

// NewRecoveryHandler creates a new recovery handler.
func NewRecoveryHandler(deps Dependencies) *RecoveryHandler {
	return &RecoveryHandler{deps: deps}
}

// recoveryRequest mirrors the API schema for POST /v1/recovery.
type recoveryRequest struct {
	UserID     string  `json:"user_id"`
	Type       string  `json:"type"`
	Minutes    float64 `json:"minutes"`
	OccurredAt string  `json:"occurred_at,omitempty"`
}

func (e recoveryRequest) validate() error {
	switch {
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing user_id")
	case !model.RecoveryKind(e.Type).Valid():
		return errors.New("type must be detox or walk")
	case e.Minutes <= 0:
		return errors.New("minutes must be positive")
	}
	if e.OccurredAt != "" {
		if _, err := time.Parse(time.RFC3339, e.OccurredAt); err != nil {
			return errors.New("invalid occurred_at; must be RFC3339")
		}
	}
	return nil
}

// HandlePostRecovery handles POST /v1/recovery requests.
func (h *RecoveryHandler) HandlePostRecovery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var occurredAt time.Time
	if req.OccurredAt != "" {
		occurredAt, _ = time.Parse(time.RFC3339, req.OccurredAt)
	}

	err := h.deps.RecordRecoveryActivity(r.Context(), model.RecoveryActivity{
		UserID:     req.UserID,
		Kind:       model.RecoveryKind(req.Type),
		Minutes:    req.Minutes,
		OccurredAt: occurredAt,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidRecovery) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}
