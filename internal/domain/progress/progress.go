// Package progress buckets weekly training load by category. Per-category
// capping keeps one over-trained category from masking under-training
// elsewhere in the load guidance.
package progress

import (
	"strings"
	"time"

	"github.com/mindloop/acumen/internal/domain/caps"
)

// Weekly is the per-category load report for one ISO week. Raw totals
// count requested XP, including amounts the caps refused; capped totals
// count XP that actually reached the skill vector, trimmed at the
// category target.
type Weekly struct {
	Week             string
	RawByCategory    map[string]float64
	CappedByCategory map[string]float64
	CappedTotal      float64
}

// Aggregator derives weekly reports from a profile's ledgers.
type Aggregator struct {
	capFor func(category string) float64
}

// New constructs an Aggregator. capFor supplies the configured weekly
// target per category.
func New(capFor func(category string) float64) *Aggregator {
	return &Aggregator{capFor: capFor}
}

// Week builds the report for the ISO week containing at. granted is the
// profile's granted-XP ledger and raw its requested-XP ledger, both
// keyed by caps.WeekKey; every requested key has a granted counterpart,
// possibly zero when a cap refused the whole amount.
func (a *Aggregator) Week(granted, raw map[string]float64, at time.Time) Weekly {
	week := caps.WeekOf(at)
	prefix := "week|" + week + "|"

	out := Weekly{
		Week:             week,
		RawByCategory:    make(map[string]float64),
		CappedByCategory: make(map[string]float64),
	}
	for key, xp := range raw {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		category := strings.TrimPrefix(key, prefix)
		out.RawByCategory[category] = xp

		capped := granted[key]
		if target := a.capFor(category); target > 0 && capped > target {
			capped = target
		}
		out.CappedByCategory[category] = capped
		out.CappedTotal += capped
	}
	return out
}
