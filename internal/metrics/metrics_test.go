package metrics

import (
	"testing"
	"time"
)

func TestStoreRecordsMetrics(t *testing.T) {
	store := NewStore()
	store.RecordQuery(120*time.Millisecond, true)
	store.RecordQuery(80*time.Millisecond, false)
	store.RecordError(50 * time.Millisecond)

	snapshot := store.Snapshot()
	if snapshot["total_queries"] != 3 {
		t.Fatalf("expected total_queries 3, got %v", snapshot["total_queries"])
	}
	if snapshot["total_errors"] != 1 {
		t.Fatalf("expected total_errors 1, got %v", snapshot["total_errors"])
	}
	if snapshot["cache_hits"] != 1 || snapshot["cache_misses"] != 1 {
		t.Fatalf("unexpected cache counters: %v", snapshot)
	}
	if snapshot["cache_hit_rate"] != 0.5 {
		t.Fatalf("expected hit rate 0.5, got %v", snapshot["cache_hit_rate"])
	}
	if snapshot["total_duration_ms"] != 250 {
		t.Fatalf("expected 250ms total, got %v", snapshot["total_duration_ms"])
	}
}
