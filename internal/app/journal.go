package app

import (
	"context"
	"sync"

	"github.com/mindloop/acumen/internal/adapters/mq/queue"
)

const defaultJournalKeep = 256

// Journal is the in-memory analytics journal: a rolling window of the
// most recent applied events plus running totals. It backs the /stats
// recent-activity feed and tolerates staleness; authoritative state
// never lives here.
type Journal struct {
	mu      sync.RWMutex
	recent  []queue.Entry
	keep    int
	total   int64
	capped  int64
	granted float64
}

// NewJournal creates a journal keeping the last keep entries.
func NewJournal(keep int) *Journal {
	if keep <= 0 {
		keep = defaultJournalKeep
	}
	return &Journal{keep: keep}
}

// Append implements worker.Sink.
func (j *Journal) Append(_ context.Context, e queue.Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.recent = append(j.recent, e)
	if len(j.recent) > j.keep {
		j.recent = j.recent[len(j.recent)-j.keep:]
	}
	j.total++
	j.granted += e.Record.GrantedXP
	if e.Record.GrantedXP < e.Record.RequestedXP {
		j.capped++
	}
}

// Totals returns the running counters: journaled events, capped events
// and total granted XP.
func (j *Journal) Totals() (total, capped int64, granted float64) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.total, j.capped, j.granted
}

// RecentCount returns the number of entries in the rolling window.
func (j *Journal) RecentCount() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.recent)
}
