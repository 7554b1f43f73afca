package classifier

import (
	"strings"
	"sync"

	"github.com/teligen-kh/aicounsel/store"
)

// RuleMatch is the outcome of a rule evaluation.
type RuleMatch struct {
	Category    Category
	MatchedText string
	Rule        *store.Rule
}

// RuleEngine evaluates composite rules against an input. Rules are held as a
// snapshot replaced wholesale by the index runner; evaluation itself is pure.
type RuleEngine struct {
	mu    sync.RWMutex
	rules []*store.Rule
}

// NewRuleEngine returns an engine with no rules loaded.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// ReplaceRules swaps the active rule set. The slice must already be in
// priority order (the store lists rules by priority ascending).
func (e *RuleEngine) ReplaceRules(rules []*store.Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = rules
}

// Rules returns the currently loaded rules.
func (e *RuleEngine) Rules() []*store.Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

// Evaluate returns the first rule matching text, in priority order.
// keyword_combination requires every keyword to appear (AND semantics);
// sentence_pattern requires the literal pattern as a substring.
func (e *RuleEngine) Evaluate(text string) (*RuleMatch, bool) {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == "" {
		return nil, false
	}

	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		switch rule.Type {
		case store.RuleTypeKeywordCombination:
			if len(rule.Keywords) == 0 {
				continue
			}
			all := true
			for _, keyword := range rule.Keywords {
				if !strings.Contains(input, strings.ToLower(keyword)) {
					all = false
					break
				}
			}
			if all {
				return &RuleMatch{
					Category:    Category(rule.Category),
					MatchedText: strings.Join(rule.Keywords, " + "),
					Rule:        rule,
				}, true
			}
		case store.RuleTypeSentencePattern:
			if rule.Pattern == "" {
				continue
			}
			if strings.Contains(input, strings.ToLower(rule.Pattern)) {
				return &RuleMatch{
					Category:    Category(rule.Category),
					MatchedText: rule.Pattern,
					Rule:        rule,
				}, true
			}
		}
	}
	return nil, false
}
