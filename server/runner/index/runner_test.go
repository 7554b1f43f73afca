package index

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teligen-kh/aicounsel/internal/profile"
	"github.com/teligen-kh/aicounsel/server/classifier"
	"github.com/teligen-kh/aicounsel/store"
	"github.com/teligen-kh/aicounsel/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	testProfile := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "aicounsel_test.db"),
	}
	driver, err := sqlite.NewDB(testProfile)
	require.NoError(t, err)

	st := store.New(driver, testProfile)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func newTestPipeline(t *testing.T, st *store.Store) *classifier.Pipeline {
	t.Helper()
	matcher, err := classifier.NewMatcher(classifier.DefaultConfig(), st, nil)
	require.NoError(t, err)
	return classifier.NewPipeline(classifier.NewKeywordMatcher(), classifier.NewRuleEngine(), matcher, nil, nil)
}

func TestRunOnceLoadsAllTiers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	pipeline := newTestPipeline(t, st)

	_, err := st.CreatePattern(ctx, &store.Pattern{
		Text:     "포스 연결 오류",
		Category: store.CategoryTechnical,
		Active:   true,
	})
	require.NoError(t, err)
	_, err = st.CreateRule(ctx, &store.Rule{
		Type:     store.RuleTypeSentencePattern,
		Pattern:  "상담사 연결",
		Category: store.CategoryCasual,
		Active:   true,
	})
	require.NoError(t, err)
	_, err = st.AddKeyword(ctx, store.CategoryProfanity, "몹쓸말")
	require.NoError(t, err)

	runner := NewRunner(st, pipeline, time.Minute)
	runner.RunOnce(ctx)

	assert.Equal(t, 1, pipeline.Matcher().CurrentSnapshot().Size())
	assert.Len(t, pipeline.Rules().Rules(), 1)

	category, _, ok := pipeline.Keywords().Match("몹쓸말 그만하세요")
	require.True(t, ok)
	assert.Equal(t, classifier.CategoryProfanity, category)
}

func TestRunOncePicksUpChanges(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	pipeline := newTestPipeline(t, st)

	runner := NewRunner(st, pipeline, time.Minute)
	runner.RunOnce(ctx)
	assert.Equal(t, 0, pipeline.Matcher().CurrentSnapshot().Size())

	_, err := st.CreatePattern(ctx, &store.Pattern{
		Text:     "프린터 인쇄 안됨",
		Category: store.CategoryTechnical,
		Active:   true,
	})
	require.NoError(t, err)

	runner.RunOnce(ctx)
	assert.Equal(t, 1, pipeline.Matcher().CurrentSnapshot().Size())

	result := pipeline.Classify(ctx, "프린터 인쇄 안됨")
	assert.Equal(t, classifier.CategoryTechnical, result.Category)
}

func TestRefreshKeepsLastSnapshotOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	pipeline := newTestPipeline(t, st)

	_, err := st.CreatePattern(ctx, &store.Pattern{
		Text:     "포스 연결 오류",
		Category: store.CategoryTechnical,
		Active:   true,
	})
	require.NoError(t, err)

	runner := NewRunner(st, pipeline, time.Minute)
	runner.RunOnce(ctx)
	require.Equal(t, 1, pipeline.Matcher().CurrentSnapshot().Size())

	// Store goes away; the refresh logs and keeps serving the last good
	// snapshot.
	require.NoError(t, st.Close())
	runner.RunOnce(ctx)
	assert.Equal(t, 1, pipeline.Matcher().CurrentSnapshot().Size())
}

func TestRequestRebuildNeverBlocks(t *testing.T) {
	st := newTestStore(t)
	runner := NewRunner(st, newTestPipeline(t, st), time.Minute)

	// No loop is draining the channel; repeated requests must coalesce
	// instead of blocking.
	for i := 0; i < 10; i++ {
		runner.RequestRebuild()
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	st := newTestStore(t)
	runner := NewRunner(st, newTestPipeline(t, st), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after context cancellation")
	}
}

func TestNewRunnerDefaultInterval(t *testing.T) {
	st := newTestStore(t)
	runner := NewRunner(st, newTestPipeline(t, st), 0)
	assert.Equal(t, 5*time.Minute, runner.interval)
}
