// Package cache stores parsed tracker snapshots keyed by document id.
//
// Freshness is not decided here: callers compare Artist.LastUpdated against their
// TTL. Backends only persist and return what they were given.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/store"
)

// ErrMiss is returned by Get when no snapshot is stored for a document.
var ErrMiss = errors.New("cache miss")

// Cache is a docID -> Artist snapshot store.
type Cache interface {
	Get(ctx context.Context, docID string) (*domain.Artist, error)
	Put(ctx context.Context, docID string, artist *domain.Artist) error
	Delete(ctx context.Context, docID string) error
	Clear(ctx context.Context) error
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Entry summarizes one cached snapshot.
type Entry struct {
	DocID       string    `json:"docId"`
	ArtistName  string    `json:"artistName"`
	Tracks      int       `json:"tracks"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func entryOf(docID string, a *domain.Artist) Entry {
	return Entry{DocID: docID, ArtistName: a.Name, Tracks: a.TrackCount(), LastUpdated: a.LastUpdated}
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].DocID < entries[j].DocID })
}

// Open returns the backend named by backend. path is the cache file or badger
// directory; db is only used by the sqlite backend.
func Open(backend, path string, db *store.DB) (Cache, error) {
	switch backend {
	case "", constants.CacheBackendFile:
		return NewFileCache(path), nil
	case constants.CacheBackendBadger:
		return NewBadgerCache(path)
	case constants.CacheBackendSQLite:
		if db == nil {
			return nil, errors.New("sqlite cache backend requires a database")
		}
		return NewSQLiteCache(db), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", backend)
}
