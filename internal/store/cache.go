package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CacheRow is one stored cache entry.
type CacheRow struct {
	Key       string       `db:"key"`
	Data      []byte       `db:"data"`
	ExpiresAt sql.NullTime `db:"expires_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// GetCache returns the data stored under key, or nil when absent or expired.
func (db *DB) GetCache(ctx context.Context, key string) ([]byte, error) {
	var row CacheRow
	err := db.GetContext(ctx, &row, "SELECT key, data, expires_at, updated_at FROM cache WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if row.ExpiresAt.Valid && time.Now().After(row.ExpiresAt.Time) {
		_, _ = db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key)
		return nil, nil
	}

	return row.Data, nil
}

// SetCache stores data under key. A ttl of zero never expires.
func (db *DB) SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO cache (key, data, expires_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at, updated_at = excluded.updated_at
	`, key, data, expiresAt, time.Now())
	return err
}

func (db *DB) DeleteCache(ctx context.Context, key string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key)
	return err
}

// ListCache returns every entry whose key starts with prefix.
func (db *DB) ListCache(ctx context.Context, prefix string) ([]CacheRow, error) {
	var rows []CacheRow
	err := db.SelectContext(ctx, &rows,
		"SELECT key, data, expires_at, updated_at FROM cache WHERE key LIKE ? ORDER BY key", prefix+"%")
	return rows, err
}

func (db *DB) ClearCache(ctx context.Context) error {
	_, err := db.ExecContext(ctx, "DELETE FROM cache")
	return err
}
