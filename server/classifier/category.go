package classifier

import (
	"strings"

	"github.com/teligen-kh/aicounsel/store"
)

// Category is the intent class assigned to a customer message.
type Category string

const (
	// CategoryCasual covers greetings and small talk.
	CategoryCasual Category = store.CategoryCasual
	// CategoryTechnical covers POS/system support questions.
	CategoryTechnical Category = store.CategoryTechnical
	// CategoryNonCounseling covers questions outside the counseling scope.
	CategoryNonCounseling Category = store.CategoryNonCounseling
	// CategoryProfanity covers abusive language.
	CategoryProfanity Category = store.CategoryProfanity
)

func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a category string, tolerating surrounding noise such
// as an LLM echoing the label inside a sentence.
func ParseCategory(s string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(normalized, store.CategoryNonCounseling):
		return CategoryNonCounseling, true
	case strings.Contains(normalized, store.CategoryProfanity):
		return CategoryProfanity, true
	case strings.Contains(normalized, store.CategoryTechnical):
		return CategoryTechnical, true
	case strings.Contains(normalized, store.CategoryCasual):
		return CategoryCasual, true
	}
	return "", false
}
