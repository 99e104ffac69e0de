package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/mapping-manager/internal/data/aggregates"
)

// HooksRecorder keeps every registry hook event so tests can assert on outcomes and
// cache traffic. Safe for concurrent writers.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
	Lookups    []LookupEvent
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

// LookupEvent is one target existence check against a cache layer.
type LookupEvent struct {
	Layer  string
	Result string
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(op, outcome string, dur time.Duration) {
	h.mu.Lock()
	h.Operations = append(h.Operations, OperationEvent{Name: op, Status: outcome, Duration: dur})
	h.mu.Unlock()
}

func (h *HooksRecorder) IncConflict(op string) {
	h.mu.Lock()
	h.Conflicts = append(h.Conflicts, op)
	h.mu.Unlock()
}

func (h *HooksRecorder) IncRetry(op string) {
	h.mu.Lock()
	h.Retries = append(h.Retries, op)
	h.mu.Unlock()
}

func (h *HooksRecorder) ObserveTargetLookup(layer, result string) {
	h.mu.Lock()
	h.Lookups = append(h.Lookups, LookupEvent{Layer: layer, Result: result})
	h.mu.Unlock()
}

// Outcomes returns the recorded outcome of each op call, in order.
func (h *HooksRecorder) Outcomes(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, ev := range h.Operations {
		if ev.Name == op {
			out = append(out, ev.Status)
		}
	}
	return out
}
