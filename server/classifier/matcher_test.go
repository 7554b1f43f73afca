package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(DefaultConfig(), nil, nil)
	require.NoError(t, err)
	m.SetSnapshot(BuildSnapshot(testPatterns()))
	return m
}

func TestNewMatcherRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 1.5
	_, err := NewMatcher(cfg, nil, nil)
	assert.Error(t, err)
}

func TestFindBestMatchExact(t *testing.T) {
	m := newTestMatcher(t)

	match := m.FindBestMatch(context.Background(), "포스 연결 오류", 0.3)
	require.NotNil(t, match)
	assert.Equal(t, int32(1), match.Pattern.ID)
	assert.Equal(t, MethodHybrid, match.Method)
	assert.InDelta(t, 1.0, match.Score, 1e-9, "exact match boosted score caps at 1")
}

func TestFindBestMatchParaphrase(t *testing.T) {
	m := newTestMatcher(t)

	match := m.FindBestMatch(context.Background(), "포스 연결이 안돼요 오류가 나요", 0.3)
	require.NotNil(t, match)
	assert.Equal(t, int32(1), match.Pattern.ID)
	assert.GreaterOrEqual(t, match.Score, 0.3)
}

func TestFindBestMatchBelowThreshold(t *testing.T) {
	m := newTestMatcher(t)

	// Single shared token against a three-token pattern stays below a high
	// threshold.
	match := m.FindBestMatch(context.Background(), "방법 알려주세요", 0.99)
	assert.Nil(t, match)
}

func TestFindBestMatchNoVocabularyOverlap(t *testing.T) {
	m := newTestMatcher(t)

	assert.Nil(t, m.FindBestMatch(context.Background(), "한국의 수도는 어디인가요", 0.3))
}

func TestFindBestMatchEmptyInput(t *testing.T) {
	m := newTestMatcher(t)

	assert.Nil(t, m.FindBestMatch(context.Background(), "", 0.3))
	assert.Nil(t, m.FindBestMatch(context.Background(), "   ", 0.3))

	// Blank inputs never reach the engine, so they are not counted.
	assert.Zero(t, m.Stats().TotalQueries)
}

func TestFindBestMatchEmptyIndex(t *testing.T) {
	m, err := NewMatcher(DefaultConfig(), nil, nil)
	require.NoError(t, err)

	assert.Nil(t, m.FindBestMatch(context.Background(), "포스 연결 오류", 0.3), "unbuilt index yields no match")

	m.SetSnapshot(BuildSnapshot(nil))
	assert.Nil(t, m.FindBestMatch(context.Background(), "포스 연결 오류", 0.3), "empty index yields no match")
}

func TestRebuildWithoutStore(t *testing.T) {
	m := newTestMatcher(t)

	err := m.Rebuild(context.Background())
	require.Error(t, err)

	// The existing snapshot stays in service.
	assert.Equal(t, len(testPatterns()), m.CurrentSnapshot().Size())
}

func TestFindBestMatchCached(t *testing.T) {
	m := newTestMatcher(t)
	ctx := context.Background()

	first := m.FindBestMatch(ctx, "포스 연결 오류", 0.3)
	require.NotNil(t, first)
	assert.Equal(t, MethodHybrid, first.Method)

	second := m.FindBestMatch(ctx, "포스 연결 오류", 0.3)
	require.NotNil(t, second)
	assert.Equal(t, MethodCache, second.Method)
	assert.Equal(t, first.Pattern.ID, second.Pattern.ID)
	assert.Equal(t, first.Score, second.Score)

	stats := m.Stats()
	assert.Equal(t, int64(2), stats.TotalQueries)
	assert.Equal(t, int64(1), stats.CacheHits)
}

func TestFindBestMatchCacheKeyNormalization(t *testing.T) {
	m := newTestMatcher(t)
	ctx := context.Background()

	require.NotNil(t, m.FindBestMatch(ctx, "포스 연결 오류", 0.3))
	cached := m.FindBestMatch(ctx, "  포스 연결 오류  ", 0.3)
	require.NotNil(t, cached)
	assert.Equal(t, MethodCache, cached.Method)
}

func TestMatcherSnapshotSwap(t *testing.T) {
	m := newTestMatcher(t)
	ctx := context.Background()
	require.NotNil(t, m.FindBestMatch(ctx, "재고 조회가 느려요", 0.3))

	// Swap in an index without the stock pattern; the stale cache entry is
	// still served until it expires, but new queries see the new snapshot.
	m.SetSnapshot(BuildSnapshot(testPatterns()[:1]))
	m.ClearCache()
	assert.Nil(t, m.FindBestMatch(ctx, "재고 조회가 느려요", 0.3))
	assert.NotNil(t, m.FindBestMatch(ctx, "포스 연결 오류", 0.3))
}

func TestMatcherClearCache(t *testing.T) {
	m := newTestMatcher(t)
	ctx := context.Background()

	require.NotNil(t, m.FindBestMatch(ctx, "포스 연결 오류", 0.3))
	assert.Equal(t, 1, m.CacheSize())

	m.ClearCache()
	assert.Equal(t, 0, m.CacheSize())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.Threshold = -0.1 }},
		{"threshold above one", func(c *Config) { c.Threshold = 1.1 }},
		{"boost below one", func(c *Config) { c.LexicalBoost = 0.9 }},
		{"zero candidates", func(c *Config) { c.MaxCandidates = 0 }},
		{"zero cache size", func(c *Config) { c.CacheSize = 0 }},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
