// Package tracker ties fetching, parsing, caching and bookkeeping together.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cesargomez89/leaktracker/internal/apperr"
	"github.com/cesargomez89/leaktracker/internal/cache"
	"github.com/cesargomez89/leaktracker/internal/config"
	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/id"
	"github.com/cesargomez89/leaktracker/internal/logger"
	"github.com/cesargomez89/leaktracker/internal/parser"
	"github.com/cesargomez89/leaktracker/internal/search"
	"github.com/cesargomez89/leaktracker/internal/sheets"
	"github.com/cesargomez89/leaktracker/internal/store"
)

type Service struct {
	Source   sheets.Source
	Cache    cache.Cache
	Trackers *store.TrackerRepo
	History  *store.HistoryRepo
	Search   *search.Registry
	Aliases  []parser.Alias
	TTL      time.Duration
	Logger   *logger.Logger
	Now      func() time.Time
}

// Deps are the collaborators of a Service. Trackers and History may be nil.
type Deps struct {
	Source   sheets.Source
	Cache    cache.Cache
	Trackers *store.TrackerRepo
	History  *store.HistoryRepo
	Aliases  []parser.Alias
	TTL      time.Duration
	Logger   *logger.Logger
}

func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = logger.Default()
	}
	ttl := d.TTL
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &Service{
		Source:   d.Source,
		Cache:    d.Cache,
		Trackers: d.Trackers,
		History:  d.History,
		Search:   search.NewRegistry(),
		Aliases:  d.Aliases,
		TTL:      ttl,
		Logger:   log.WithComponent("tracker"),
		Now:      time.Now,
	}
}

// AliasesFromConfig converts configured alias rules for the parser.
func AliasesFromConfig(in []config.EraAlias) []parser.Alias {
	out := make([]parser.Alias, 0, len(in))
	for _, a := range in {
		out = append(out, parser.Alias{Match: a.Match, Canonical: a.Canonical})
	}
	return out
}

// Request asks for one tracker view.
type Request struct {
	URL   string
	Sheet domain.SheetType
	// Refresh skips the freshness check and always refetches.
	Refresh bool
	// ArtistName overrides the name found in the sheet.
	ArtistName string
}

// Result is a tracker view plus where it came from.
type Result struct {
	DocID  string         `json:"docId"`
	Sheet  string         `json:"sheet"`
	Cached bool           `json:"cached"`
	Artist *domain.Artist `json:"artist"`
}

// Fetch returns the requested view of a tracker, from cache when the snapshot is
// younger than the TTL, otherwise by fetching and parsing the sheet.
func (s *Service) Fetch(ctx context.Context, req Request) (*Result, error) {
	docID, err := sheets.ExtractDocID(req.URL)
	if err != nil {
		return nil, err
	}
	sheet := req.Sheet
	if sheet == "" {
		sheet = domain.SheetUnreleased
	}
	log := s.Logger.WithDocument(docID).WithSheet(string(sheet))
	started := time.Now()
	now := s.Now()

	if !req.Refresh {
		cached, err := s.Cache.Get(ctx, docID)
		switch {
		case err == nil && cached.IsFresh(now, s.TTL):
			log.Debug("Serving cached tracker", "age", now.Sub(cached.LastUpdated))
			view := parser.ApplyView(cached, sheet, now)
			s.record(ctx, docID, sheet, constants.FetchStatusCached, nil, view.TrackCount(), started)
			return &Result{DocID: docID, Sheet: string(sheet), Cached: true, Artist: view}, nil
		case err != nil && !errors.Is(err, cache.ErrMiss):
			log.Warn("Cache read failed", "error", err)
		}
	}

	table, err := s.Source.FetchTable(ctx, docID, sheets.ParseGID(req.URL))
	if err != nil {
		log.Error("Tracker fetch failed", "error", err)
		s.record(ctx, docID, sheet, constants.FetchStatusFailed, err, 0, started)
		return nil, err
	}

	art := sheets.FindArt(ctx, s.Source, docID, log)
	artist := parser.Parse(table, parser.Options{
		ArtistName: req.ArtistName,
		Aliases:    s.Aliases,
		Art:        art,
		Now:        now,
		Logger:     log,
	})

	if err := s.Cache.Put(ctx, docID, artist); err != nil {
		log.Warn("Cache write failed", "error", err)
	}
	s.Search.Drop(docID)
	s.register(ctx, docID, req.URL, artist)

	view := parser.ApplyView(artist, sheet, now)
	s.record(ctx, docID, sheet, constants.FetchStatusOK, nil, view.TrackCount(), started)
	log.Info("Tracker parsed", "artist", artist.Name, "eras", artist.Counts.Eras, "tracks", artist.Counts.Tracks)

	return &Result{DocID: docID, Sheet: string(sheet), Artist: view}, nil
}

// Get returns a view of an already cached tracker regardless of its age.
func (s *Service) Get(ctx context.Context, docID string, sheet domain.SheetType) (*Result, error) {
	if sheet == "" {
		sheet = domain.SheetUnreleased
	}
	artist, err := s.cached(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &Result{
		DocID:  docID,
		Sheet:  string(sheet),
		Cached: true,
		Artist: parser.ApplyView(artist, sheet, s.Now()),
	}, nil
}

// SearchTracks runs a full-text query over a cached tracker.
func (s *Service) SearchTracks(ctx context.Context, docID, q string, limit int) (*search.Result, error) {
	artist, err := s.cached(ctx, docID)
	if err != nil {
		return nil, err
	}
	idx, err := s.Search.For(docID, artist)
	if err != nil {
		return nil, apperr.Internal("Failed to build search index").WithCause(err)
	}
	return idx.Search(ctx, q, limit)
}

// List returns the known trackers. Without a registry it falls back to the cache.
func (s *Service) List(ctx context.Context) ([]*domain.TrackerRecord, error) {
	if s.Trackers != nil {
		return s.Trackers.List(ctx)
	}
	entries, err := s.Cache.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.TrackerRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, &domain.TrackerRecord{
			DocID:       e.DocID,
			ArtistName:  e.ArtistName,
			TrackCount:  e.Tracks,
			LastFetched: e.LastUpdated,
		})
	}
	return out, nil
}

// FetchHistory returns the latest fetch attempts for docID.
func (s *Service) FetchHistory(ctx context.Context, docID string, limit int) ([]*domain.FetchRecord, error) {
	if s.History == nil {
		return []*domain.FetchRecord{}, nil
	}
	return s.History.List(ctx, docID, limit)
}

// Invalidate drops the cached snapshot of docID.
func (s *Service) Invalidate(ctx context.Context, docID string) error {
	if err := s.Cache.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	s.Search.Drop(docID)
	s.Logger.Info("Cache entry removed", "doc_id", docID)
	return nil
}

// Forget drops the cached snapshot of docID together with its registry entry
// and fetch history.
func (s *Service) Forget(ctx context.Context, docID string) error {
	if err := s.Invalidate(ctx, docID); err != nil {
		return err
	}
	if s.Trackers == nil {
		return nil
	}
	if err := s.Trackers.Forget(ctx, docID); err != nil {
		return fmt.Errorf("failed to forget tracker: %w", err)
	}
	return nil
}

// ClearCache drops every cached snapshot.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.Cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	s.Search.Close()
	s.Logger.Info("Cache cleared")
	return nil
}

// CacheEntries lists what is currently cached.
func (s *Service) CacheEntries(ctx context.Context) ([]cache.Entry, error) {
	return s.Cache.List(ctx)
}

func (s *Service) cached(ctx context.Context, docID string) (*domain.Artist, error) {
	artist, err := s.Cache.Get(ctx, docID)
	if errors.Is(err, cache.ErrMiss) {
		return nil, apperr.NotFound("Tracker " + docID + " has not been fetched yet")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to read cache").WithCause(err)
	}
	return artist, nil
}

func (s *Service) register(ctx context.Context, docID, url string, a *domain.Artist) {
	if s.Trackers == nil {
		return
	}
	eras := make(domain.StringSlice, 0, len(a.Albums))
	for _, e := range a.Albums {
		eras = append(eras, e.Name)
	}
	rec := &domain.TrackerRecord{
		DocID:       docID,
		URL:         url,
		ArtistName:  a.Name,
		Eras:        eras,
		TrackCount:  a.TrackCount(),
		LastFetched: a.LastUpdated,
	}
	if err := s.Trackers.Upsert(ctx, rec); err != nil {
		s.Logger.Warn("Failed to register tracker", "doc_id", docID, "error", err)
	}
}

func (s *Service) record(ctx context.Context, docID string, sheet domain.SheetType, status string, fetchErr error, tracks int, started time.Time) {
	if s.History == nil {
		return
	}
	fetchID, err := id.Generate(id.PrefixFetch)
	if err != nil {
		s.Logger.Warn("Failed to generate fetch id", "error", err)
		return
	}
	rec := &domain.FetchRecord{
		ID:         fetchID,
		DocID:      docID,
		SheetType:  string(sheet),
		Status:     status,
		TrackCount: tracks,
		DurationMs: time.Since(started).Milliseconds(),
		CreatedAt:  s.Now(),
	}
	if fetchErr != nil {
		msg := fetchErr.Error()
		rec.Error = &msg
	}
	if err := s.History.Record(ctx, rec); err != nil {
		s.Logger.Warn("Failed to record fetch", "doc_id", docID, "error", err)
	}
}
