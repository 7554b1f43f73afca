package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/teligen-kh/aicounsel/internal/observability"
	"github.com/teligen-kh/aicounsel/server/classifier"
)

// StatsResponse combines service-level request counters with engine-level
// match statistics and index state.
type StatsResponse struct {
	Service *observability.MetricsSnapshot `json:"service"`
	Engine  classifier.StatsSnapshot       `json:"engine"`
	Index   IndexStatus                    `json:"index"`
}

// IndexStatus describes the live pattern index.
type IndexStatus struct {
	Patterns  int       `json:"patterns"`
	CacheSize int       `json:"cacheSize"`
	BuiltAt   time.Time `json:"builtAt"`
}

// GetStats returns classification statistics.
// GET /api/v1/stats
func (s *APIV1Service) GetStats(c echo.Context) error {
	snapshot := s.Pipeline.Matcher().CurrentSnapshot()
	status := IndexStatus{
		Patterns:  snapshot.Size(),
		CacheSize: s.Pipeline.Matcher().CacheSize(),
	}
	if snapshot != nil {
		status.BuiltAt = snapshot.BuiltAt()
	}

	return c.JSON(http.StatusOK, StatsResponse{
		Service: s.Metrics.Snapshot(),
		Engine:  s.Pipeline.Matcher().Stats(),
		Index:   status,
	})
}

// RefreshIndex clears the match cache and runs a synchronous refresh of the
// pattern index, rules, and keyword sets.
// POST /api/v1/index/refresh
func (s *APIV1Service) RefreshIndex(c echo.Context) error {
	s.Pipeline.Matcher().ClearCache()
	s.Runner.RunOnce(c.Request().Context())

	snapshot := s.Pipeline.Matcher().CurrentSnapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"patterns": snapshot.Size(),
	})
}
