package classifier

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/teligen-kh/aicounsel/store"
)

// Match is an accepted hybrid match.
type Match struct {
	Pattern *store.Pattern
	Score   float64
	Method  string
}

// Matcher is the hybrid match engine: lexical candidate retrieval over an
// inverted index, cosine re-ranking over n-gram vectors, and a full-index
// scan fallback, fronted by a bounded TTL cache.
//
// Many classifications may run concurrently against one Matcher. The
// snapshot is immutable and swapped atomically; the cache serializes its
// own access.
type Matcher struct {
	config Config
	store  *store.Store
	logger *slog.Logger

	snapshot atomic.Pointer[Snapshot]
	cache    *matchCache
	stats    *Stats
}

// NewMatcher creates a matcher with an empty snapshot. The store may be nil;
// usage counters are then not persisted.
func NewMatcher(config Config, st *store.Store, logger *slog.Logger) (*Matcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		config: config,
		store:  st,
		logger: logger,
		cache:  newMatchCache(config.CacheSize, config.CacheTTL),
		stats:  newStats(),
	}, nil
}

// SetSnapshot atomically swaps in a new index snapshot. In-flight matches
// keep using the snapshot they started with.
func (m *Matcher) SetSnapshot(snapshot *Snapshot) {
	m.snapshot.Store(snapshot)
}

// CurrentSnapshot returns the live snapshot, possibly nil before the first
// rebuild.
func (m *Matcher) CurrentSnapshot() *Snapshot {
	return m.snapshot.Load()
}

// Rebuild loads the active patterns and swaps in a freshly built snapshot.
// On store failure the previous snapshot stays in service.
func (m *Matcher) Rebuild(ctx context.Context) error {
	if m.store == nil {
		return errors.New("matcher has no store to rebuild from")
	}
	patterns, err := m.store.ListActivePatterns(ctx, nil)
	if err != nil {
		return err
	}
	snapshot := BuildSnapshot(patterns)
	m.SetSnapshot(snapshot)
	m.logger.Info("match index rebuilt", slog.Int("patterns", snapshot.Size()))
	return nil
}

// Stats returns the engine's usage counters.
func (m *Matcher) Stats() StatsSnapshot {
	return m.stats.Snapshot()
}

// CacheSize returns the number of cached match results.
func (m *Matcher) CacheSize() int {
	return m.cache.size()
}

// ClearCache drops all cached match results.
func (m *Matcher) ClearCache() {
	m.cache.clear()
}

// FindBestMatch returns the best pattern match for text with score >=
// threshold, or nil when nothing qualifies. Matching is best-effort and
// never fails: an unbuilt or empty index simply yields no match.
func (m *Matcher) FindBestMatch(ctx context.Context, text string, threshold float64) *Match {
	start := time.Now()

	cacheKey := strings.ToLower(strings.TrimSpace(text))
	if cacheKey == "" {
		return nil
	}
	m.stats.recordQuery()

	if cached, ok := m.cache.get(cacheKey); ok {
		m.stats.recordCacheHit()
		return &Match{Pattern: cached.Pattern, Score: cached.Score, Method: MethodCache}
	}

	snapshot := m.snapshot.Load()
	if snapshot.Size() == 0 {
		return nil
	}

	query := snapshot.Vectorize(text)
	if len(query) == 0 {
		// Nothing in the input maps into the index vocabulary.
		return nil
	}

	var best *Match

	// Phase 1: lexical candidate retrieval; phase 2: cosine re-ranking with
	// the lexical hit treated as a corroborating signal.
	candidates := snapshot.lexicalCandidates(Tokenize(text), m.config.MaxCandidates)
	if len(candidates) > 0 {
		for _, cand := range candidates {
			score := snapshot.cosine(cand.index, query)
			if score <= 0 {
				continue
			}
			boosted := score * m.config.LexicalBoost
			if boosted > 1.0 {
				boosted = 1.0
			}
			if best == nil || boosted > best.Score {
				best = &Match{Pattern: snapshot.patterns[cand.index], Score: boosted, Method: MethodHybrid}
			}
		}
	} else {
		// Phase 3: full vector scan, catches paraphrases with no token
		// overlap against the candidate index.
		for i := range snapshot.patterns {
			score := snapshot.cosine(i, query)
			if score <= 0 {
				continue
			}
			if best == nil || score > best.Score {
				best = &Match{Pattern: snapshot.patterns[i], Score: score, Method: MethodVector}
			}
		}
	}

	if best == nil || best.Score < threshold {
		m.stats.recordMethod("miss", time.Since(start))
		return nil
	}

	m.cache.put(cacheKey, best)
	m.incrementUsageAsync(best.Pattern.ID)
	m.stats.recordMethod(best.Method, time.Since(start))

	m.logger.Debug("pattern matched",
		slog.String("pattern", best.Pattern.Text),
		slog.String("category", best.Pattern.Category),
		slog.Float64("score", best.Score),
		slog.String("method", best.Method))

	return best
}

// incrementUsageAsync bumps the winning pattern's usage counter without
// blocking or failing the request.
func (m *Matcher) incrementUsageAsync(id int32) {
	if m.store == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.store.IncrementPatternUsage(ctx, id)
	}()
}
