package index

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/teligen-kh/aicounsel/server/classifier"
	"github.com/teligen-kh/aicounsel/store"
)

// Runner keeps the classification tiers in sync with the store: it rebuilds
// the pattern index and reloads rules and keyword sets, both on a fixed
// interval and on demand after admin writes. On-demand requests are rate
// limited so a burst of pattern edits triggers one rebuild, not one per edit.
type Runner struct {
	store    *store.Store
	pipeline *classifier.Pipeline
	interval time.Duration
	limiter  *rate.Limiter
	requests chan struct{}
}

// NewRunner creates an index runner. interval is how often a full refresh
// runs regardless of demand.
func NewRunner(st *store.Store, pipeline *classifier.Pipeline, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Runner{
		store:    st,
		pipeline: pipeline,
		interval: interval,
		// At most one demand-driven rebuild per 10 seconds.
		limiter:  rate.NewLimiter(rate.Every(10*time.Second), 1),
		requests: make(chan struct{}, 1),
	}
}

// RequestRebuild schedules a demand-driven refresh. It never blocks; when a
// request is already pending the two collapse into one.
func (r *Runner) RequestRebuild() {
	select {
	case r.requests <- struct{}{}:
	default:
	}
}

// Run starts the background refresh loop. It refreshes once on startup and
// then on every tick or coalesced demand request, until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.requests:
			if err := r.limiter.Wait(ctx); err != nil {
				return
			}
			r.refresh(ctx)
		case <-ctx.Done():
			slog.Info("index runner stopped")
			return
		}
	}
}

// RunOnce performs a single refresh, for manual triggering and tests.
func (r *Runner) RunOnce(ctx context.Context) {
	r.refresh(ctx)
}

// refresh reloads every tier. Each load failure is logged and leaves that
// tier on its previous snapshot; one failing tier does not block the others.
func (r *Runner) refresh(ctx context.Context) {
	start := time.Now()

	if err := r.pipeline.Matcher().Rebuild(ctx); err != nil {
		slog.Error("failed to rebuild pattern index", "error", err)
	}

	rules, err := r.store.ListActiveRules(ctx)
	if err != nil {
		slog.Error("failed to load classification rules", "error", err)
	} else {
		r.pipeline.Rules().ReplaceRules(rules)
	}

	sets, err := r.store.ListKeywordSets(ctx)
	if err != nil {
		slog.Error("failed to load keyword sets", "error", err)
	} else {
		r.pipeline.Keywords().Reload(sets)
	}

	slog.Debug("classification data refreshed",
		"patterns", r.pipeline.Matcher().CurrentSnapshot().Size(),
		"elapsed", time.Since(start))
}
