package app

import "errors"

// Sentinel kinds for service errors. Cap shortfalls and duplicate
// events are not errors; they are communicated through the receipt.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrInvalidEvent      = errors.New("invalid training event")
	ErrInvalidRecovery   = errors.New("invalid recovery activity")
	ErrInvalidBaseline   = errors.New("invalid baseline")
	ErrNotCalibrated     = errors.New("baseline not calibrated")
	ErrAlreadyCalibrated = errors.New("baseline already calibrated")
)
