package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// KeywordSet is the administratively curated keyword list for one category.
// The keyword tier of the classifier reloads from these records.
type KeywordSet struct {
	Category  string
	Keywords  []string
	UpdatedTs int64
}

// FindKeywordSet is the find condition for keyword sets.
type FindKeywordSet struct {
	Category *string
}

const keywordSetCacheKey = "keyword_sets"

// ListKeywordSets returns all keyword sets. Reads are served from the store
// cache; mutations invalidate it.
func (s *Store) ListKeywordSets(ctx context.Context) ([]*KeywordSet, error) {
	if cached, ok := s.keywordSetCache.Get(keywordSetCacheKey); ok {
		if sets, ok := cached.([]*KeywordSet); ok {
			return sets, nil
		}
	}

	sets, err := s.driver.ListKeywordSets(ctx, &FindKeywordSet{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list keyword sets")
	}
	s.keywordSetCache.Set(keywordSetCacheKey, sets)
	return sets, nil
}

// GetKeywordSet returns the keyword set for one category, or nil if none
// exists.
func (s *Store) GetKeywordSet(ctx context.Context, category string) (*KeywordSet, error) {
	sets, err := s.ListKeywordSets(ctx)
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if set.Category == category {
			return set, nil
		}
	}
	return nil, nil
}

// UpsertKeywordSet replaces the keyword list for a category.
func (s *Store) UpsertKeywordSet(ctx context.Context, upsert *KeywordSet) (*KeywordSet, error) {
	if !IsValidCategory(upsert.Category) {
		return nil, errors.Wrapf(ErrInvalidKeywordSet, "unknown category %q", upsert.Category)
	}
	set, err := s.driver.UpsertKeywordSet(ctx, upsert)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert keyword set")
	}
	s.keywordSetCache.Delete(keywordSetCacheKey)
	return set, nil
}

// AddKeyword appends a keyword to a category's set if not already present.
func (s *Store) AddKeyword(ctx context.Context, category, keyword string) (*KeywordSet, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.Wrap(ErrInvalidKeywordSet, "keyword is empty")
	}

	set, err := s.GetKeywordSet(ctx, category)
	if err != nil {
		return nil, err
	}
	if set == nil {
		set = &KeywordSet{Category: category}
	}
	for _, kw := range set.Keywords {
		if kw == keyword {
			return set, nil
		}
	}
	set.Keywords = append(set.Keywords, keyword)
	return s.UpsertKeywordSet(ctx, set)
}

// RemoveKeyword removes a keyword from a category's set.
func (s *Store) RemoveKeyword(ctx context.Context, category, keyword string) (*KeywordSet, error) {
	set, err := s.GetKeywordSet(ctx, category)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, errors.Wrapf(ErrInvalidKeywordSet, "no keyword set for category %q", category)
	}

	kept := set.Keywords[:0]
	for _, kw := range set.Keywords {
		if kw != keyword {
			kept = append(kept, kw)
		}
	}
	set.Keywords = kept
	return s.UpsertKeywordSet(ctx, set)
}
