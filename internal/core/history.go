package core

import (
	"sync"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

// DefaultHistorySize is how many finished runs a Service remembers.
const DefaultHistorySize = 50

// RunRecord is a finished run as shown in the run history.
type RunRecord struct {
	Report *dataimport.Report `json:"report"`
	Status string             `json:"status"` // committed, dry_run, aborted, publish_failed
	Error  string             `json:"error,omitempty"`
}

// Run statuses.
const (
	StatusCommitted     = "committed"
	StatusDryRun        = "dry_run"
	StatusAborted       = "aborted"
	StatusPublishFailed = "publish_failed"
)

// RunHistory keeps the most recent runs, newest last.
type RunHistory struct {
	mu      sync.RWMutex
	size    int
	records []RunRecord
}

func NewRunHistory(size int) *RunHistory {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &RunHistory{size: size}
}

// Add appends a record, dropping the oldest once full.
func (h *RunHistory) Add(rec RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	if over := len(h.records) - h.size; over > 0 {
		h.records = append(h.records[:0:0], h.records[over:]...)
	}
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (h *RunHistory) Recent(n int) []RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.records) {
		n = len(h.records)
	}
	out := make([]RunRecord, 0, n)
	for i := len(h.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.records[i])
	}
	return out
}

// Find returns the record of runID.
func (h *RunHistory) Find(runID string) (RunRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.records) - 1; i >= 0; i-- {
		if r := h.records[i].Report; r != nil && r.RunID == runID {
			return h.records[i], true
		}
	}
	return RunRecord{}, false
}
