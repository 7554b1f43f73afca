package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teligen-kh/aicounsel/store"
)

func TestKeywordMatcher(t *testing.T) {
	m := NewKeywordMatcher()

	tests := []struct {
		input    string
		category Category
		match    bool
	}{
		{"씨발 왜 안돼", CategoryProfanity, true},
		{"안녕하세요", CategoryCasual, true},
		{"hello there", CategoryCasual, true},
		{"This is stupid", CategoryProfanity, true},
		{"포스 연결이 안돼요", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		category, keyword, ok := m.Match(tt.input)
		assert.Equal(t, tt.match, ok, "input %q", tt.input)
		if tt.match {
			assert.Equal(t, tt.category, category, "input %q", tt.input)
			assert.NotEmpty(t, keyword)
		}
	}
}

func TestKeywordMatcherProfanityFirst(t *testing.T) {
	// Contains both a greeting and profanity; profanity must win.
	m := NewKeywordMatcher()
	category, _, ok := m.Match("안녕 이 바보야")
	require.True(t, ok)
	assert.Equal(t, CategoryProfanity, category)
}

func TestKeywordMatcherReload(t *testing.T) {
	m := NewKeywordMatcher()

	m.Reload([]*store.KeywordSet{
		{Category: store.CategoryProfanity, Keywords: []string{"나쁜말"}},
		{Category: store.CategoryCasual, Keywords: []string{"모닝"}},
		// Unknown categories for the keyword tier are ignored.
		{Category: store.CategoryTechnical, Keywords: []string{"포스"}},
	})

	category, keyword, ok := m.Match("나쁜말 하지마")
	require.True(t, ok)
	assert.Equal(t, CategoryProfanity, category)
	assert.Equal(t, "나쁜말", keyword)

	category, _, ok = m.Match("굿 모닝")
	require.True(t, ok)
	assert.Equal(t, CategoryCasual, category)

	// Old defaults are replaced, not merged.
	_, _, ok = m.Match("안녕하세요")
	assert.False(t, ok)

	// Technical keywords never enter the keyword tier.
	_, _, ok = m.Match("포스")
	assert.False(t, ok)
}

func TestKeywordMatcherReloadEmptySetKeepsCurrent(t *testing.T) {
	m := NewKeywordMatcher()
	m.Reload([]*store.KeywordSet{{Category: store.CategoryCasual, Keywords: nil}})

	category, _, ok := m.Match("안녕하세요")
	require.True(t, ok)
	assert.Equal(t, CategoryCasual, category)
}
