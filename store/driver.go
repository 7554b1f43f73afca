package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate applies the latest schema.
	Migrate(ctx context.Context) error

	// Pattern model related methods.
	CreatePattern(ctx context.Context, create *Pattern) (*Pattern, error)
	ListPatterns(ctx context.Context, find *FindPattern) ([]*Pattern, error)
	UpdatePattern(ctx context.Context, update *UpdatePattern) error
	DeletePattern(ctx context.Context, delete *DeletePattern) error
	IncrementPatternUsage(ctx context.Context, id int32) error

	// Rule model related methods.
	CreateRule(ctx context.Context, create *Rule) (*Rule, error)
	ListRules(ctx context.Context, find *FindRule) ([]*Rule, error)
	UpdateRule(ctx context.Context, update *UpdateRule) error
	DeleteRule(ctx context.Context, delete *DeleteRule) error

	// KeywordSet model related methods.
	ListKeywordSets(ctx context.Context, find *FindKeywordSet) ([]*KeywordSet, error)
	UpsertKeywordSet(ctx context.Context, upsert *KeywordSet) (*KeywordSet, error)
}
