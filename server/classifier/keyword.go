package classifier

import (
	"strings"
	"sync"

	"github.com/teligen-kh/aicounsel/store"
)

// Default keyword lists for the two categories a single word can settle
// unambiguously. Curated lists from the store replace these at runtime.
var (
	defaultProfanityKeywords = []string{
		"바보", "멍청", "새끼", "씨발", "병신",
		"미친", "미쳤", "돌았", "빡치", "열받", "꺼져",
		"fuck", "shit", "damn", "bitch", "idiot", "stupid",
	}
	defaultCasualKeywords = []string{
		"안녕", "반갑", "반가워", "좋은 아침", "좋은 오후", "좋은 저녁",
		"하이", "hi", "hello", "땡큐", "고마워", "감사합니다",
		"바쁘시", "식사", "점심", "커피", "기분", "피곤", "잘 지내",
	}
)

// KeywordMatcher is the first classification tier: a pure lookup over fixed
// in-memory keyword lists. The profanity list is always checked first so
// abusive language is never masked by another category.
type KeywordMatcher struct {
	mu        sync.RWMutex
	profanity []string
	casual    []string
}

// NewKeywordMatcher returns a matcher seeded with the default lists.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{
		profanity: defaultProfanityKeywords,
		casual:    defaultCasualKeywords,
	}
}

// Reload replaces the lists from curated keyword sets. Categories other than
// profanity and casual are ignored; absent sets keep the current list.
func (m *KeywordMatcher) Reload(sets []*store.KeywordSet) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, set := range sets {
		if len(set.Keywords) == 0 {
			continue
		}
		switch set.Category {
		case store.CategoryProfanity:
			m.profanity = set.Keywords
		case store.CategoryCasual:
			m.casual = set.Keywords
		}
	}
}

// Match returns the category of the first keyword contained in text, along
// with the keyword itself. First list, first hit wins; no scoring.
func (m *KeywordMatcher) Match(text string) (Category, string, bool) {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == "" {
		return "", "", false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, keyword := range m.profanity {
		if strings.Contains(input, strings.ToLower(keyword)) {
			return CategoryProfanity, keyword, true
		}
	}
	for _, keyword := range m.casual {
		if strings.Contains(input, strings.ToLower(keyword)) {
			return CategoryCasual, keyword, true
		}
	}
	return "", "", false
}
