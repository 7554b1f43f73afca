package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/teligen-kh/aicounsel/internal/profile"
	"github.com/teligen-kh/aicounsel/store/cache"
)

// Categories a record may carry. These mirror the classifier's category set;
// the store validates them at its boundary so malformed records are rejected
// on write, not at match time.
const (
	CategoryCasual        = "casual"
	CategoryTechnical     = "technical"
	CategoryNonCounseling = "non_counseling"
	CategoryProfanity     = "profanity"
)

// IsValidCategory reports whether category is one of the known categories.
func IsValidCategory(category string) bool {
	switch category {
	case CategoryCasual, CategoryTechnical, CategoryNonCounseling, CategoryProfanity:
		return true
	}
	return false
}

// Sentinel errors for boundary validation.
var (
	ErrInvalidPattern    = errors.New("invalid pattern")
	ErrDuplicatePattern  = errors.New("duplicate pattern")
	ErrInvalidRule       = errors.New("invalid rule")
	ErrInvalidKeywordSet = errors.New("invalid keyword set")
	ErrNotFound          = errors.New("record not found")
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	keywordSetCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		keywordSetCache: cache.New(cache.Config{
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxItems:        16,
		}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// Migrate applies the latest schema.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	s.keywordSetCache.Close()
	return s.driver.Close()
}
