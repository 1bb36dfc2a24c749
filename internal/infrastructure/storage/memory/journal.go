package memory

import (
	"context"
	"sync"

	"stockreport/internal/domain/reports"
)

// Journal keeps the latest report runs in memory.
type Journal struct {
	mu   sync.Mutex
	runs []reports.Run
	max  int
}

// NewJournal creates a journal holding at most max runs.
func NewJournal(max int) *Journal {
	return &Journal{max: max}
}

// Record adds a run, dropping the oldest one when full.
func (j *Journal) Record(_ context.Context, run reports.Run) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs = append(j.runs, run)
	if j.max > 0 && len(j.runs) > j.max {
		j.runs = j.runs[len(j.runs)-j.max:]
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(_ context.Context, limit int) ([]reports.Run, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := min(limit, len(j.runs))
	out := make([]reports.Run, 0, n)
	for i := len(j.runs) - 1; i >= len(j.runs)-n; i-- {
		out = append(out, j.runs[i])
	}
	return out, nil
}
