package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// Pattern is a short curated reference string tied to a category. Patterns
// are the matching targets of the hybrid match engine.
type Pattern struct {
	ID         int32
	UID        string
	Text       string
	Category   string
	Priority   int32
	Accuracy   float64
	UsageCount int64
	Active     bool
	Source     string
	CreatedTs  int64
	UpdatedTs  int64
}

// FindPattern is the find condition for patterns.
type FindPattern struct {
	ID       *int32
	UID      *string
	Category *string
	Active   *bool

	Limit  *int
	Offset *int
}

// UpdatePattern is the update request for a pattern. Nil fields are left
// unchanged.
type UpdatePattern struct {
	ID       int32
	Text     *string
	Category *string
	Priority *int32
	Accuracy *float64
	Active   *bool
	Source   *string
}

// DeletePattern is the delete request for a pattern.
type DeletePattern struct {
	ID int32
}

// NormalizeText is the canonical form used for deduplication: trimmed,
// lower-cased, inner whitespace collapsed.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func validatePattern(text, category string, accuracy float64) error {
	if strings.TrimSpace(text) == "" {
		return errors.Wrap(ErrInvalidPattern, "text is empty")
	}
	if !IsValidCategory(category) {
		return errors.Wrapf(ErrInvalidPattern, "unknown category %q", category)
	}
	if accuracy < 0 || accuracy > 1 {
		return errors.Wrapf(ErrInvalidPattern, "accuracy %v out of range [0,1]", accuracy)
	}
	return nil
}

// CreatePattern validates and persists a new pattern. Duplicate active
// patterns (same normalized text and category) are rejected.
func (s *Store) CreatePattern(ctx context.Context, create *Pattern) (*Pattern, error) {
	if err := validatePattern(create.Text, create.Category, create.Accuracy); err != nil {
		return nil, err
	}

	normalized := NormalizeText(create.Text)
	active := true
	existing, err := s.driver.ListPatterns(ctx, &FindPattern{Category: &create.Category, Active: &active})
	if err != nil {
		return nil, errors.Wrap(err, "failed to check for duplicate pattern")
	}
	for _, p := range existing {
		if NormalizeText(p.Text) == normalized {
			return nil, errors.Wrapf(ErrDuplicatePattern, "pattern %q already exists in category %s", create.Text, create.Category)
		}
	}

	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	pattern, err := s.driver.CreatePattern(ctx, create)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pattern")
	}
	return pattern, nil
}

// ListPatterns returns patterns ordered by priority ascending, ties broken
// by updated_ts descending.
func (s *Store) ListPatterns(ctx context.Context, find *FindPattern) ([]*Pattern, error) {
	if find == nil {
		find = &FindPattern{}
	}
	return s.driver.ListPatterns(ctx, find)
}

// ListActivePatterns returns the active patterns, optionally filtered by
// category. This is what the index builder feeds on.
func (s *Store) ListActivePatterns(ctx context.Context, category *string) ([]*Pattern, error) {
	active := true
	return s.driver.ListPatterns(ctx, &FindPattern{Category: category, Active: &active})
}

// UpdatePattern applies the non-nil fields of update.
func (s *Store) UpdatePattern(ctx context.Context, update *UpdatePattern) error {
	if update.Text != nil && strings.TrimSpace(*update.Text) == "" {
		return errors.Wrap(ErrInvalidPattern, "text is empty")
	}
	if update.Category != nil && !IsValidCategory(*update.Category) {
		return errors.Wrapf(ErrInvalidPattern, "unknown category %q", *update.Category)
	}
	if update.Accuracy != nil && (*update.Accuracy < 0 || *update.Accuracy > 1) {
		return errors.Wrapf(ErrInvalidPattern, "accuracy %v out of range [0,1]", *update.Accuracy)
	}
	return s.driver.UpdatePattern(ctx, update)
}

// DeletePattern removes a single pattern.
func (s *Store) DeletePattern(ctx context.Context, delete *DeletePattern) error {
	return s.driver.DeletePattern(ctx, delete)
}

// IncrementPatternUsage bumps the usage counter of the winning pattern.
// This is best-effort: a statistics write must never fail a user-facing
// request, so failures are logged and swallowed.
func (s *Store) IncrementPatternUsage(ctx context.Context, id int32) {
	if err := s.driver.IncrementPatternUsage(ctx, id); err != nil {
		slog.Warn("failed to increment pattern usage",
			slog.Int("pattern_id", int(id)),
			slog.String("error", err.Error()))
	}
}
