package caniuse

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// DB is an on-disk cache of raw feature payloads, so repeated runs (and
// offline runs) don't re-fetch data that is still fresh enough.
type DB struct {
	sql *sql.DB
}

// OpenDB opens (and if needed initializes) the sqlite payload cache.
func OpenDB(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS feature_cache (
  feature_id TEXT PRIMARY KEY,
  payload    TEXT NOT NULL,
  fetched_at INTEGER NOT NULL
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Get returns the cached payload for a feature if it was fetched within
// maxAge. A stale or missing row reports ok=false, not an error.
func (d *DB) Get(ctx context.Context, featureID string, maxAge time.Duration) (string, bool, error) {
	var payload string
	var fetchedAt int64
	err := d.sql.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM feature_cache WHERE feature_id = ?", featureID).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if time.Since(time.Unix(fetchedAt, 0)) > maxAge {
		return "", false, nil
	}
	return payload, true, nil
}

// Put upserts the payload for a feature with the current timestamp.
func (d *DB) Put(ctx context.Context, featureID, payload string) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO feature_cache(feature_id, payload, fetched_at) VALUES(?,?,?)
ON CONFLICT(feature_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		featureID, payload, time.Now().Unix())
	return err
}
