package v1

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/teligen-kh/aicounsel/internal/observability"
	"github.com/teligen-kh/aicounsel/internal/profile"
	"github.com/teligen-kh/aicounsel/server/classifier"
	"github.com/teligen-kh/aicounsel/server/middleware"
	"github.com/teligen-kh/aicounsel/server/runner/index"
	"github.com/teligen-kh/aicounsel/store"
)

// APIV1Service exposes the classification engine and its curation data over
// HTTP. Pattern, rule, and keyword writes schedule an index rebuild through
// the runner rather than mutating the live tiers directly.
type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Pipeline *classifier.Pipeline
	Runner   *index.Runner
	Metrics  *observability.Metrics

	logger *slog.Logger
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(profile *profile.Profile, st *store.Store, pipeline *classifier.Pipeline, runner *index.Runner, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		Profile:  profile,
		Store:    st,
		Pipeline: pipeline,
		Runner:   runner,
		Metrics:  observability.NewMetrics(),
		logger:   logger,
	}
}

// Register mounts all /api/v1 routes on the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1")
	g.Use(echomw.CORS())

	// Classification is the hot path and the only unauthenticated surface
	// worth abusing; bound it per client.
	limiter := middleware.NewRateLimiter(50, 100)
	g.POST("/classify", s.Classify, limiter.Middleware())

	g.GET("/patterns", s.ListPatterns)
	g.POST("/patterns", s.CreatePattern)
	g.PATCH("/patterns/:id", s.UpdatePattern)
	g.DELETE("/patterns/:id", s.DeletePattern)

	g.GET("/rules", s.ListRules)
	g.POST("/rules", s.CreateRule)
	g.PATCH("/rules/:id", s.UpdateRule)
	g.DELETE("/rules/:id", s.DeleteRule)

	g.GET("/keywords", s.ListKeywordSets)
	g.POST("/keywords/:category", s.AddKeyword)
	g.DELETE("/keywords/:category", s.RemoveKeyword)

	g.GET("/stats", s.GetStats)
	g.POST("/index/refresh", s.RefreshIndex)
}
