// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mindloop/acumen/internal/app"
	"github.com/mindloop/acumen/internal/domain/model"
)

// CalibrationHandler handles baseline calibration.
type CalibrationHandler struct {
	deps Dependencies
}

// NewCalibrationHandler creates a new calibration handler.
func NewCalibrationHandler(deps Dependencies) *CalibrationHandler {
	return &CalibrationHandler{deps: deps}
}

// calibrationRequest mirrors the API schema for POST /v1/calibration.
type calibrationRequest struct {
	UserID       string  `json:"user_id"`
	AE           float64 `json:"ae"`
	RA           float64 `json:"ra"`
	CT           float64 `json:"ct"`
	IN           float64 `json:"in"`
	CognitiveAge float64 `json:"cognitive_age"`
}

func (c calibrationRequest) validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("missing user_id")
	}
	for _, v := range []float64{c.AE, c.RA, c.CT, c.IN} {
		if v < model.MinSkillValue || v > model.MaxSkillValue {
			return errors.New("skill values must be in [0,100]")
		}
	}
	if c.CognitiveAge <= 0 {
		return errors.New("cognitive_age must be positive")
	}
	return nil
}

// HandlePostCalibration handles POST /v1/calibration requests. The
// baseline is written exactly once; a second attempt conflicts.
func (h *CalibrationHandler) HandlePostCalibration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req calibrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	err := h.deps.CompleteCalibration(r.Context(), req.UserID, model.Baseline{
		AE:           req.AE,
		RA:           req.RA,
		CT:           req.CT,
		IN:           req.IN,
		CognitiveAge: req.CognitiveAge,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidBaseline) {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "calibrated"})
}
