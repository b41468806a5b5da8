package search

import (
	"sync"
	"time"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

type registryEntry struct {
	index   *TrackIndex
	updated time.Time
}

// Registry keeps one index per tracker document and rebuilds it when the snapshot
// it was built from changes.
type Registry struct {
	mu      sync.Mutex
	entries map[string]registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// For returns the index for docID built from a.
func (r *Registry) For(docID string, a *domain.Artist) (*TrackIndex, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[docID]; ok {
		if e.updated.Equal(a.LastUpdated) {
			return e.index, nil
		}
		e.index.Close()
		delete(r.entries, docID)
	}

	idx, err := Build(a)
	if err != nil {
		return nil, err
	}
	r.entries[docID] = registryEntry{index: idx, updated: a.LastUpdated}
	return idx, nil
}

// Drop discards the index for docID.
func (r *Registry) Drop(docID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[docID]; ok {
		e.index.Close()
		delete(r.entries, docID)
	}
}

// Close discards every index.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		e.index.Close()
		delete(r.entries, id)
	}
	return nil
}
