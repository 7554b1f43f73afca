package classifier

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teligen-kh/aicounsel/store"
)

type stubFallback struct {
	category Category
	err      error
	calls    int
}

func (s *stubFallback) ClassifyIntent(_ context.Context, _ string) (Category, error) {
	s.calls++
	return s.category, s.err
}

func newTestPipeline(t *testing.T, fallback FallbackClassifier) *Pipeline {
	t.Helper()
	matcher := newTestMatcher(t)
	rules := NewRuleEngine()
	rules.ReplaceRules(testRules())
	return NewPipeline(NewKeywordMatcher(), rules, matcher, fallback, nil)
}

func TestPipelineKeywordTier(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.Classify(context.Background(), "씨발")
	assert.Equal(t, CategoryProfanity, result.Category)
	assert.Equal(t, MethodKeyword, result.Method)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, "씨발", result.MatchedText)

	result = p.Classify(context.Background(), "안녕하세요")
	assert.Equal(t, CategoryCasual, result.Category)
	assert.Equal(t, MethodKeyword, result.Method)
}

func TestPipelineRuleTier(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.Classify(context.Background(), "상담사 연결 부탁드립니다")
	assert.Equal(t, CategoryCasual, result.Category)
	assert.Equal(t, MethodRule, result.Method)
	assert.Equal(t, 0.90, result.Confidence)
}

func TestPipelineHybridTier(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.Classify(context.Background(), "프린터 인쇄가 안되는데 인쇄 좀 봐주세요")
	assert.Equal(t, CategoryTechnical, result.Category)
	assert.Equal(t, MethodHybrid, result.Method)
	assert.GreaterOrEqual(t, result.Score, 0.3)
	assert.Equal(t, "프린터 인쇄 안됨", result.MatchedText)
}

func TestPipelineFallbackTier(t *testing.T) {
	fallback := &stubFallback{category: CategoryNonCounseling}
	p := newTestPipeline(t, fallback)

	result := p.Classify(context.Background(), "한국의 수도는 어디인가요")
	assert.Equal(t, CategoryNonCounseling, result.Category)
	assert.Equal(t, MethodFallback, result.Method)
	assert.Equal(t, 1, fallback.calls)
}

func TestPipelineFallbackErrorDegradesToDefault(t *testing.T) {
	fallback := &stubFallback{err: errors.New("api unavailable")}
	p := newTestPipeline(t, fallback)

	result := p.Classify(context.Background(), "한국의 수도는 어디인가요")
	assert.Equal(t, CategoryNonCounseling, result.Category)
	assert.Equal(t, MethodDefault, result.Method)
	assert.Equal(t, 1, fallback.calls)
}

func TestPipelineDefaultWithoutFallback(t *testing.T) {
	p := newTestPipeline(t, nil)

	result := p.Classify(context.Background(), "한국의 수도는 어디인가요")
	assert.Equal(t, CategoryNonCounseling, result.Category)
	assert.Equal(t, MethodDefault, result.Method)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestPipelineEmptyInput(t *testing.T) {
	// Empty input skips every tier, including the fallback, and lands on
	// the default category.
	fallback := &stubFallback{category: CategoryTechnical}
	p := newTestPipeline(t, fallback)

	for _, input := range []string{"", "   ", "\t\n"} {
		result := p.Classify(context.Background(), input)
		require.NotNil(t, result, "input %q", input)
		assert.Equal(t, CategoryNonCounseling, result.Category, "input %q", input)
		assert.Equal(t, MethodDefault, result.Method, "input %q", input)
		assert.Zero(t, result.Confidence, "input %q", input)
	}
	assert.Zero(t, fallback.calls)
}

func TestPipelineTierPrecedence(t *testing.T) {
	// Profanity plus a rule trigger plus pattern vocabulary: the keyword
	// tier must win.
	p := newTestPipeline(t, nil)

	result := p.Classify(context.Background(), "씨발 포스 오류 상담사 연결")
	assert.Equal(t, CategoryProfanity, result.Category)
	assert.Equal(t, MethodKeyword, result.Method)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		ok       bool
	}{
		{"casual", CategoryCasual, true},
		{"technical", CategoryTechnical, true},
		{"non_counseling", CategoryNonCounseling, true},
		{"profanity", CategoryProfanity, true},
		{"  Technical  ", CategoryTechnical, true},
		{"답변: non_counseling 입니다", CategoryNonCounseling, true},
		{"unknown", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestSuggestedReply(t *testing.T) {
	assert.Contains(t, SuggestedReply(CategoryNonCounseling, "텔리젠"), "텔리젠")
	assert.NotEmpty(t, SuggestedReply(CategoryProfanity, ""))
	assert.NotEmpty(t, SuggestedReply(CategoryCasual, ""))
	assert.Empty(t, SuggestedReply(CategoryTechnical, "텔리젠"))
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, category := range []Category{CategoryCasual, CategoryTechnical, CategoryNonCounseling, CategoryProfanity} {
		assert.True(t, store.IsValidCategory(category.String()))
	}
}
