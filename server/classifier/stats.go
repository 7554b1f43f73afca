package classifier

import (
	"sync"
	"time"
)

// Stats tracks usage and performance counters of the match engine. Updates
// are order-independent and best-effort; an occasional lost increment under
// contention is acceptable.
type Stats struct {
	mu sync.Mutex

	totalQueries  int64
	cacheHits     int64
	methodCounts  map[string]int64
	avgLatencyMs  float64
	latencySample int64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	TotalQueries int64            `json:"totalQueries"`
	CacheHits    int64            `json:"cacheHits"`
	CacheHitRate float64          `json:"cacheHitRate"`
	MethodCounts map[string]int64 `json:"methodCounts"`
	AvgLatencyMs float64          `json:"avgLatencyMs"`
}

func newStats() *Stats {
	return &Stats{methodCounts: make(map[string]int64)}
}

func (s *Stats) recordQuery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalQueries++
}

func (s *Stats) recordCacheHit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheHits++
	s.methodCounts[MethodCache]++
}

func (s *Stats) recordMethod(method string, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methodCounts[method]++

	// Rolling average over all observed latencies.
	ms := float64(latency.Microseconds()) / 1000
	s.latencySample++
	s.avgLatencyMs += (ms - s.avgLatencyMs) / float64(s.latencySample)
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64, len(s.methodCounts))
	for method, count := range s.methodCounts {
		counts[method] = count
	}

	hitRate := 0.0
	if s.totalQueries > 0 {
		hitRate = float64(s.cacheHits) / float64(s.totalQueries)
	}

	return StatsSnapshot{
		TotalQueries: s.totalQueries,
		CacheHits:    s.cacheHits,
		CacheHitRate: hitRate,
		MethodCounts: counts,
		AvgLatencyMs: s.avgLatencyMs,
	}
}
