package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

const badgerPrefix = "tracker:"

// BadgerCache stores snapshots in an embedded Badger database.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens (or creates) a Badger database in dir. An empty dir keeps
// everything in memory.
func NewBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

func key(docID string) []byte {
	return []byte(badgerPrefix + docID)
}

func (c *BadgerCache) Get(_ context.Context, docID string) (*domain.Artist, error) {
	var a domain.Artist
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(docID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *BadgerCache) Put(_ context.Context, docID string, artist *domain.Artist) error {
	data, err := json.Marshal(artist)
	if err != nil {
		return fmt.Errorf("failed to marshal artist: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(docID), data)
	})
}

func (c *BadgerCache) Delete(_ context.Context, docID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(docID))
	})
}

func (c *BadgerCache) Clear(_ context.Context) error {
	return c.db.DropPrefix([]byte(badgerPrefix))
}

func (c *BadgerCache) List(_ context.Context) ([]Entry, error) {
	var entries []Entry
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			docID := strings.TrimPrefix(string(item.Key()), badgerPrefix)
			err := item.Value(func(val []byte) error {
				var a domain.Artist
				if err := json.Unmarshal(val, &a); err != nil {
					return err
				}
				entries = append(entries, entryOf(docID, &a))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

func (c *BadgerCache) Close() error {
	return c.db.Close()
}

var _ Cache = (*BadgerCache)(nil)
