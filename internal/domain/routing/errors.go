package routing

import "errors"

// Sentinel kinds for routing errors.
var (
	// ErrUnknownRoute marks a drill identifier with no catalog entry.
	// Events carrying one are rejected outright; silently misrouted XP
	// cannot be undone.
	ErrUnknownRoute = errors.New("unknown skill route")
)
