package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates request-level counters for the classification API.
// Engine-internal stats (cache hits, tier latencies) live in the engine; this
// tracks the service surface.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	categoryMetrics map[string]*CategoryMetrics
}

// CategoryMetrics holds counters for a single assigned category.
type CategoryMetrics struct {
	count         atomic.Int64
	totalDuration atomic.Int64 // milliseconds
}

// NewMetrics creates an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		categoryMetrics: make(map[string]*CategoryMetrics),
	}
}

// RecordClassification records one completed classification.
func (m *Metrics) RecordClassification(category string, duration time.Duration) {
	m.requestTotal.Add(1)
	cm := m.getCategoryMetrics(category)
	cm.count.Add(1)
	cm.totalDuration.Add(duration.Milliseconds())
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure() {
	m.requestTotal.Add(1)
	m.requestFailed.Add(1)
}

func (m *Metrics) getCategoryMetrics(category string) *CategoryMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	cm, ok := m.categoryMetrics[category]
	if !ok {
		cm = &CategoryMetrics{}
		m.categoryMetrics[category] = cm
	}
	return cm
}

// Reset clears all counters. Used by tests.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)

	m.mu.Lock()
	m.categoryMetrics = make(map[string]*CategoryMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make(map[string]*CategoryMetricsSnapshot, len(m.categoryMetrics))
	for category, cm := range m.categoryMetrics {
		count := cm.count.Load()
		snapshot := &CategoryMetricsSnapshot{
			Count:         count,
			TotalDuration: cm.totalDuration.Load(),
		}
		if count > 0 {
			snapshot.AverageDuration = snapshot.TotalDuration / count
		}
		categories[category] = snapshot
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Categories:    categories,
	}
}

// MetricsSnapshot is a point-in-time snapshot of the API counters.
type MetricsSnapshot struct {
	RequestTotal  int64                               `json:"requestTotal"`
	RequestFailed int64                               `json:"requestFailed"`
	Categories    map[string]*CategoryMetricsSnapshot `json:"categories"`
}

// CategoryMetricsSnapshot holds the per-category counters.
type CategoryMetricsSnapshot struct {
	Count           int64 `json:"count"`
	TotalDuration   int64 `json:"totalDurationMs"`
	AverageDuration int64 `json:"averageDurationMs"`
}

// SuccessRate returns the success rate as a percentage.
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
