package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
)

// FileCache keeps every snapshot in one JSON object on disk, {"<docId>": Artist}.
// Writes are read-modify-write under a process-local lock; separate processes
// sharing the file can still race.
type FileCache struct {
	path string
	mu   sync.Mutex
}

func NewFileCache(path string) *FileCache {
	if path == "" {
		path = constants.DefaultCachePath
	}
	return &FileCache{path: path}
}

func (c *FileCache) Get(_ context.Context, docID string) (*domain.Artist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load()
	if err != nil {
		return nil, err
	}
	a, ok := all[docID]
	if !ok {
		return nil, ErrMiss
	}
	return a, nil
}

func (c *FileCache) Put(_ context.Context, docID string, artist *domain.Artist) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load()
	if err != nil {
		return err
	}
	all[docID] = artist
	return c.save(all)
}

func (c *FileCache) Delete(_ context.Context, docID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load()
	if err != nil {
		return err
	}
	if _, ok := all[docID]; !ok {
		return nil
	}
	delete(all, docID)
	return c.save(all)
}

func (c *FileCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(map[string]*domain.Artist{})
}

func (c *FileCache) List(_ context.Context) ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(all))
	for docID, a := range all {
		entries = append(entries, entryOf(docID, a))
	}
	sortEntries(entries)
	return entries, nil
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) load() (map[string]*domain.Artist, error) {
	all := make(map[string]*domain.Artist)
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return all, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode cache file: %w", err)
	}
	return all, nil
}

// save writes to a temp file and renames it over the cache file.
func (c *FileCache) save(all map[string]*domain.Artist) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache file: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tracker-cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), constants.FilePermissions); err != nil {
		return fmt.Errorf("chmod cache file: %w", err)
	}
	return os.Rename(tmp.Name(), c.path)
}

var _ Cache = (*FileCache)(nil)
