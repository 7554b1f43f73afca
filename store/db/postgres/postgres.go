package postgres

import (
	"context"
	"database/sql"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/teligen-kh/aicounsel/internal/profile"
	"github.com/teligen-kh/aicounsel/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL connection for the given profile.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// Classification is read-mostly; a small pool is plenty.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
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
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	text TEXT NOT NULL,
	category TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 100,
	accuracy DOUBLE PRECISION NOT NULL DEFAULT 0.9,
	usage_count BIGINT NOT NULL DEFAULT 0,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	source TEXT NOT NULL DEFAULT '',
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE INDEX IF NOT EXISTS idx_pattern_category ON pattern (category);
CREATE INDEX IF NOT EXISTS idx_pattern_active ON pattern (active);

CREATE TABLE IF NOT EXISTS rule (
	id SERIAL PRIMARY KEY,
	type TEXT NOT NULL,
	keywords TEXT NOT NULL DEFAULT '[]',
	pattern TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 100,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);

CREATE INDEX IF NOT EXISTS idx_rule_active ON rule (active);

CREATE TABLE IF NOT EXISTS keyword_set (
	category TEXT PRIMARY KEY,
	keywords TEXT NOT NULL DEFAULT '[]',
	updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
);
`

// Migrate applies the latest schema.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}
