package testutil

import (
	"sync"
	"testing"
	"time"
)

func TestHooksRecorderGroupsOutcomesByOperation(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Registry.Mapping.Create", "success", time.Millisecond)
	h.ObserveOperation("Registry.Mapping.Delete", "not_found", time.Millisecond)
	h.ObserveOperation("Registry.Mapping.Create", "conflict", time.Millisecond)
	h.IncConflict("Registry.Mapping.Create")

	got := h.Outcomes("Registry.Mapping.Create")
	if len(got) != 2 || got[0] != "success" || got[1] != "conflict" {
		t.Fatalf("create outcomes: %v", got)
	}
	if got := h.Outcomes("Registry.Mapping.Retarget"); len(got) != 0 {
		t.Fatalf("retarget outcomes should be empty, got %v", got)
	}
	if len(h.Conflicts) != 1 || len(h.Retries) != 0 {
		t.Fatalf("counters: conflicts=%v retries=%v", h.Conflicts, h.Retries)
	}
}

func TestHooksRecorderConcurrentLookups(t *testing.T) {
	h := &HooksRecorder{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ObserveTargetLookup("local", "miss")
			h.ObserveTargetLookup("store", "present")
		}()
	}
	wg.Wait()
	if len(h.Lookups) != 16 {
		t.Fatalf("lookups: want=16 got=%d", len(h.Lookups))
	}
}
