// Package metrics keeps process-wide analytics query counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Store accumulates query statistics with atomic counters.
type Store struct {
	totalQueries    int64
	totalErrors     int64
	cacheHits       int64
	cacheMisses     int64
	totalDurationMs int64
}

// NewStore creates the counter store.
func NewStore() *Store {
	return &Store{}
}

// RecordQuery records one completed analytics query.
func (s *Store) RecordQuery(duration time.Duration, cacheHit bool) {
	atomic.AddInt64(&s.totalQueries, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
	if cacheHit {
		atomic.AddInt64(&s.cacheHits, 1)
	} else {
		atomic.AddInt64(&s.cacheMisses, 1)
	}
}

// RecordError records a failed query.
func (s *Store) RecordError(duration time.Duration) {
	atomic.AddInt64(&s.totalQueries, 1)
	atomic.AddInt64(&s.totalErrors, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
}

// Snapshot returns the current counter values.
func (s *Store) Snapshot() map[string]float64 {
	totalQueries := atomic.LoadInt64(&s.totalQueries)
	totalErrors := atomic.LoadInt64(&s.totalErrors)
	hits := atomic.LoadInt64(&s.cacheHits)
	misses := atomic.LoadInt64(&s.cacheMisses)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)

	avgDuration := 0.0
	if totalQueries > 0 {
		avgDuration = float64(durationMs) / float64(totalQueries)
	}
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}

	return map[string]float64{
		"total_queries":     float64(totalQueries),
		"total_errors":      float64(totalErrors),
		"cache_hits":        float64(hits),
		"cache_misses":      float64(misses),
		"cache_hit_rate":    hitRate,
		"total_duration_ms": float64(durationMs),
		"avg_duration_ms":   avgDuration,
	}
}
