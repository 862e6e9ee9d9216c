// Package simulate generates synthetic training traffic against a
// running engine for load and smoke testing.
package simulate

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// randomFloatDivisor scales crypto/rand integers into [0,1).
const randomFloatDivisor = 1_000_000

// drills is the catalog slice the generator draws from; identifiers
// match the engine's built-in routing table.
var drills = []string{
	"n-back", "stroop-match", "schulte-grid", "focus-flow",
	"word-sprint", "pair-match", "speed-sort", "trail-switch",
	"logic-grid", "syllogism", "argument-audit",
	"remote-associates", "rebus", "riddle-path",
	"article", "podcast", "book-chapter",
}

// Event is one generated submission.
type Event struct {
	EventID    string
	UserID     string
	Drill      string
	Score      float64
	OccurredAt time.Time
}

// Baseline is one generated calibration payload.
type Baseline struct {
	UserID         string
	AE, RA, CT, IN float64
	CognitiveAge   float64
}

func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// GenerateUsers returns count unique user ids.
func GenerateUsers(count int) []string {
	users := make([]string, count)
	for i := range users {
		users[i] = uuid.New().String()
	}
	return users
}

// GenerateBaseline produces a plausible calibration for a user: skills
// in the 30-70 band, age between 25 and 65.
func GenerateBaseline(userID string) Baseline {
	return Baseline{
		UserID:       userID,
		AE:           30 + 40*randomFloat(),
		RA:           30 + 40*randomFloat(),
		CT:           30 + 40*randomFloat(),
		IN:           30 + 40*randomFloat(),
		CognitiveAge: 25 + 40*randomFloat(),
	}
}

// GenerateEvents produces perUser events for each user, spread over the
// past week with scores in the 40-100 band.
func GenerateEvents(users []string, perUser int) []Event {
	now := time.Now().UTC()
	events := make([]Event, 0, len(users)*perUser)
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			back := time.Duration(randomFloat() * float64(7*24*time.Hour))
			events = append(events, Event{
				EventID:    uuid.New().String(),
				UserID:     user,
				Drill:      drills[int(randomFloat()*float64(len(drills)))%len(drills)],
				Score:      40 + 60*randomFloat(),
				OccurredAt: now.Add(-back),
			})
		}
	}
	return events
}
