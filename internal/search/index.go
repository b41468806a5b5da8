// Package search provides full-text search over the tracks of a parsed tracker.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
)

// TrackIndex is an in-memory index over one artist's tracks.
//
// Thread safety: all public methods are safe for concurrent use.
type TrackIndex struct {
	index bleve.Index
	mu    sync.RWMutex
}

// Hit is a single search result.
type Hit struct {
	TrackID string  `json:"trackId"`
	Era     string  `json:"era"`
	Title   string  `json:"title"`
	Quality string  `json:"quality,omitempty"`
	Score   float64 `json:"score"`
}

// Result is the outcome of a search.
type Result struct {
	Query string `json:"query"`
	Total uint64 `json:"total"`
	Hits  []Hit  `json:"hits"`
}

// Build indexes every track of a.
func Build(a *domain.Artist) (*TrackIndex, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, era := range a.Albums {
		for _, t := range era.Tracks {
			if err := batch.Index(t.ID, document(t)); err != nil {
				idx.Close()
				return nil, fmt.Errorf("index track %s: %w", t.ID, err)
			}
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return &TrackIndex{index: idx}, nil
}

func document(t domain.Track) map[string]any {
	return map[string]any{
		"title":           t.Title.Main,
		"era":             t.Era,
		"raw_name":        t.RawName,
		"alternate_names": t.Title.AlternateNames,
		"features":        t.Title.Features,
		"producers":       t.Title.Producers,
		"collaborators":   t.Title.Collaborators,
		"notes":           t.Notes,
		"quality":         t.Quality,
		"special":         string(t.SpecialType),
	}
}

// Search runs a free-text query. Matches in the title weigh most, then alternate
// names and credits, then era and notes. The last word also matches as a prefix.
func (s *TrackIndex) Search(ctx context.Context, text string, limit int) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text = strings.TrimSpace(text)
	if limit <= 0 {
		limit = constants.DefaultSearchLimit
	}
	res := &Result{Query: text, Hits: []Hit{}}
	if text == "" {
		return res, nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(text), limit, 0, false)
	req.Fields = []string{"title", "era", "quality"}

	out, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	res.Total = out.Total
	for _, h := range out.Hits {
		res.Hits = append(res.Hits, Hit{
			TrackID: h.ID,
			Era:     stringField(h.Fields, "era"),
			Title:   stringField(h.Fields, "title"),
			Quality: stringField(h.Fields, "quality"),
			Score:   h.Score,
		})
	}
	return res, nil
}

func buildQuery(text string) query.Query {
	boosts := []struct {
		field string
		boost float64
	}{
		{"title", 3},
		{"alternate_names", 2},
		{"raw_name", 1.5},
		{"features", 1.5},
		{"producers", 1.5},
		{"collaborators", 1.5},
		{"era", 1},
		{"notes", 0.5},
	}

	var qs []query.Query
	for _, b := range boosts {
		mq := bleve.NewMatchQuery(text)
		mq.SetField(b.field)
		mq.SetBoost(b.boost)
		qs = append(qs, mq)
	}

	words := strings.Fields(strings.ToLower(text))
	if last := words[len(words)-1]; len(last) >= 2 {
		pq := bleve.NewPrefixQuery(last)
		pq.SetField("title")
		pq.SetBoost(2)
		qs = append(qs, pq)
	}

	return bleve.NewDisjunctionQuery(qs...)
}

func stringField(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

// Close releases the index.
func (s *TrackIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
