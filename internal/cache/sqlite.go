package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/store"
)

const sqlitePrefix = "tracker:"

// SQLiteCache keeps snapshots in the cache table of the service database.
type SQLiteCache struct {
	db *store.DB
}

func NewSQLiteCache(db *store.DB) *SQLiteCache {
	return &SQLiteCache{db: db}
}

func (c *SQLiteCache) Get(ctx context.Context, docID string) (*domain.Artist, error) {
	data, err := c.db.GetCache(ctx, sqlitePrefix+docID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrMiss
	}
	var a domain.Artist
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode cached artist: %w", err)
	}
	return &a, nil
}

func (c *SQLiteCache) Put(ctx context.Context, docID string, artist *domain.Artist) error {
	data, err := json.Marshal(artist)
	if err != nil {
		return fmt.Errorf("encode artist: %w", err)
	}
	return c.db.SetCache(ctx, sqlitePrefix+docID, data, 0)
}

func (c *SQLiteCache) Delete(ctx context.Context, docID string) error {
	return c.db.DeleteCache(ctx, sqlitePrefix+docID)
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	return c.db.ClearCache(ctx)
}

func (c *SQLiteCache) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.ListCache(ctx, sqlitePrefix)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		var a domain.Artist
		if err := json.Unmarshal(r.Data, &a); err != nil {
			continue
		}
		entries = append(entries, entryOf(strings.TrimPrefix(r.Key, sqlitePrefix), &a))
	}
	sortEntries(entries)
	return entries, nil
}

// Close is a no-op; the database is owned by the caller.
func (c *SQLiteCache) Close() error { return nil }

var _ Cache = (*SQLiteCache)(nil)
