package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/teligen-kh/aicounsel/internal/profile"
	"github.com/teligen-kh/aicounsel/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a SQLite database for the given profile.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// WAL keeps concurrent classify reads from blocking on admin writes.
	dsn := profile.DSN + "?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const latestSchema = `
CREATE TABLE IF NOT EXISTS pattern (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	text TEXT NOT NULL,
	category TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 100,
	accuracy REAL NOT NULL DEFAULT 0.9,
	usage_count INTEGER NOT NULL DEFAULT 0,
	active INTEGER NOT NULL DEFAULT 1,
	source TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_pattern_category ON pattern (category);
CREATE INDEX IF NOT EXISTS idx_pattern_active ON pattern (active);

CREATE TABLE IF NOT EXISTS rule (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	keywords TEXT NOT NULL DEFAULT '[]',
	pattern TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 100,
	active INTEGER NOT NULL DEFAULT 1,
	created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);

CREATE INDEX IF NOT EXISTS idx_rule_active ON rule (active);

CREATE TABLE IF NOT EXISTS keyword_set (
	category TEXT PRIMARY KEY,
	keywords TEXT NOT NULL DEFAULT '[]',
	updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
);
`

// Migrate applies the latest schema.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}
