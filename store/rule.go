package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// RuleType is the kind of composite condition a rule expresses.
type RuleType string

const (
	// RuleTypeKeywordCombination matches when every keyword appears in the
	// input (AND semantics).
	RuleTypeKeywordCombination RuleType = "keyword_combination"
	// RuleTypeSentencePattern matches when the literal pattern appears as a
	// substring of the input.
	RuleTypeSentencePattern RuleType = "sentence_pattern"
)

// Rule is a composite condition evaluated before fuzzy matching.
type Rule struct {
	ID        int32
	Type      RuleType
	Keywords  []string
	Pattern   string
	Category  string
	Priority  int32
	Active    bool
	CreatedTs int64
	UpdatedTs int64
}

// FindRule is the find condition for rules.
type FindRule struct {
	ID       *int32
	Category *string
	Active   *bool
}

// UpdateRule is the update request for a rule. Nil fields are left unchanged.
type UpdateRule struct {
	ID       int32
	Keywords *[]string
	Pattern  *string
	Category *string
	Priority *int32
	Active   *bool
}

// DeleteRule is the delete request for a rule.
type DeleteRule struct {
	ID int32
}

func validateRule(rule *Rule) error {
	if !IsValidCategory(rule.Category) {
		return errors.Wrapf(ErrInvalidRule, "unknown category %q", rule.Category)
	}
	switch rule.Type {
	case RuleTypeKeywordCombination:
		if len(rule.Keywords) == 0 {
			return errors.Wrap(ErrInvalidRule, "keyword_combination rule has no keywords")
		}
		for _, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return errors.Wrap(ErrInvalidRule, "keyword_combination rule has an empty keyword")
			}
		}
	case RuleTypeSentencePattern:
		if strings.TrimSpace(rule.Pattern) == "" {
			return errors.Wrap(ErrInvalidRule, "sentence_pattern rule has an empty pattern")
		}
	default:
		return errors.Wrapf(ErrInvalidRule, "unknown rule type %q", rule.Type)
	}
	return nil
}

// CreateRule validates and persists a new rule.
func (s *Store) CreateRule(ctx context.Context, create *Rule) (*Rule, error) {
	if err := validateRule(create); err != nil {
		return nil, err
	}
	rule, err := s.driver.CreateRule(ctx, create)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rule")
	}
	return rule, nil
}

// ListRules returns rules ordered by priority ascending.
func (s *Store) ListRules(ctx context.Context, find *FindRule) ([]*Rule, error) {
	if find == nil {
		find = &FindRule{}
	}
	return s.driver.ListRules(ctx, find)
}

// ListActiveRules returns the active rules in evaluation order.
func (s *Store) ListActiveRules(ctx context.Context) ([]*Rule, error) {
	active := true
	return s.driver.ListRules(ctx, &FindRule{Active: &active})
}

// UpdateRule applies the non-nil fields of update. The resulting rule is
// validated as a whole, so an update cannot strip a combination rule of its
// keywords or a sentence rule of its pattern.
func (s *Store) UpdateRule(ctx context.Context, update *UpdateRule) error {
	existing, err := s.driver.ListRules(ctx, &FindRule{ID: &update.ID})
	if err != nil {
		return errors.Wrap(err, "failed to load rule")
	}
	if len(existing) == 0 {
		return errors.Wrapf(ErrNotFound, "rule %d", update.ID)
	}

	updated := *existing[0]
	if update.Keywords != nil {
		updated.Keywords = *update.Keywords
	}
	if update.Pattern != nil {
		updated.Pattern = *update.Pattern
	}
	if update.Category != nil {
		updated.Category = *update.Category
	}
	if err := validateRule(&updated); err != nil {
		return err
	}

	return s.driver.UpdateRule(ctx, update)
}

// DeleteRule removes a single rule.
func (s *Store) DeleteRule(ctx context.Context, delete *DeleteRule) error {
	return s.driver.DeleteRule(ctx, delete)
}
