// Package history keeps the per-session log of completed analyses.
package history

import (
	"sync"

	"github.com/ashureev/sproc-lineage/internal/domain"
)

// History is an append-only, insertion-ordered list of interaction records.
// The zero value is an empty history ready for use.
type History struct {
	mu      sync.RWMutex
	records []domain.InteractionRecord
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Append adds rec as the new latest record.
func (h *History) Append(rec domain.InteractionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
}

// Latest returns the most recently appended record.
func (h *History) Latest() (domain.InteractionRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.records) == 0 {
		return domain.InteractionRecord{}, false
	}
	return h.records[len(h.records)-1], true
}

// Previous returns every record except the latest, oldest first.
func (h *History) Previous() []domain.InteractionRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.records) <= 1 {
		return []domain.InteractionRecord{}
	}
	out := make([]domain.InteractionRecord, len(h.records)-1)
	copy(out, h.records[:len(h.records)-1])
	return out
}

// All returns a copy of every record, oldest first.
func (h *History) All() []domain.InteractionRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.InteractionRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
