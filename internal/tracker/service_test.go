package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/leaktracker/internal/apperr"
	"github.com/cesargomez89/leaktracker/internal/cache"
	"github.com/cesargomez89/leaktracker/internal/config"
	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/logger"
	"github.com/cesargomez89/leaktracker/internal/parser"
	"github.com/cesargomez89/leaktracker/internal/sheets"
	"github.com/cesargomez89/leaktracker/internal/store"
)

const trackerURL = "https://docs.google.com/spreadsheets/d/DOC123/edit#gid=7"

type stubSource struct {
	table     *sheets.Table
	err       error
	calls     int
	gids      []string
	artSheets map[string]*sheets.Table
}

func (s *stubSource) FetchTable(_ context.Context, _, gid string) (*sheets.Table, error) {
	s.calls++
	s.gids = append(s.gids, gid)
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

func (s *stubSource) FetchSheet(_ context.Context, _, name string) (*sheets.Table, error) {
	if t, ok := s.artSheets[name]; ok {
		return t, nil
	}
	return nil, apperr.NotFound("no sheet")
}

func sampleTable() *sheets.Table {
	return &sheets.Table{Rows: [][]string{
		{"Kanye West Tracker", "", "", ""},
		{"Era", "Name", "Quality", "Link(s)"},
		{"Graduation", "", "", ""},
		{"", "⭐ Good Morning (Demo)", "OG", "https://pillows.su/f/0123456789abcdef0123456789abcdef"},
		{"", "Homecoming (feat. Chris Martin)", "CDQ", ""},
		{"Donda 2", "", "", ""},
		{"", "Broken Road", "HQ", ""},
		{"Donda 2 (Stem Player)", "", "", ""},
		{"", "Sci Fi", "HQ", ""},
	}}
}

type fixture struct {
	svc *Service
	src *stubSource
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	db, err := store.NewSQLiteDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	src := &stubSource{
		table: sampleTable(),
		artSheets: map[string]*sheets.Table{
			"Covers": {Rows: [][]string{{"Graduation", "https://i.imgur.com/grad.png"}}},
		},
	}
	svc := NewService(Deps{
		Source:   src,
		Cache:    cache.NewFileCache(filepath.Join(dir, "cache.json")),
		Trackers: store.NewTrackerRepo(db),
		History:  store.NewHistoryRepo(db),
		Aliases:  AliasesFromConfig(config.DefaultAliases()),
		TTL:      time.Hour,
		Logger:   logger.Discard(),
	})
	f := &fixture{svc: svc, src: src, now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	svc.Now = func() time.Time { return f.now }
	t.Cleanup(func() { svc.Search.Close() })
	return f
}

func TestService_FetchParsesAndCaches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Fetch(ctx, Request{URL: trackerURL})
	require.NoError(t, err)
	assert.Equal(t, "DOC123", res.DocID)
	assert.False(t, res.Cached)
	assert.Equal(t, []string{"7"}, f.src.gids)

	a := res.Artist
	assert.Equal(t, "Kanye West", a.Name)
	require.Len(t, a.Albums, 2)
	assert.Equal(t, "Graduation", a.Albums[0].Name)
	assert.Equal(t, "https://i.imgur.com/grad.png", a.Albums[0].Picture)
	assert.Equal(t, "Donda 2", a.Albums[1].Name)
	assert.Len(t, a.Albums[1].Tracks, 2)

	// Within the TTL the cache answers.
	f.now = f.now.Add(30 * time.Minute)
	res, err = f.svc.Fetch(ctx, Request{URL: trackerURL})
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, 1, f.src.calls)

	// Refresh bypasses it.
	res, err = f.svc.Fetch(ctx, Request{URL: trackerURL, Refresh: true})
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 2, f.src.calls)

	// Past the TTL the sheet is fetched again.
	f.now = f.now.Add(2 * time.Hour)
	_, err = f.svc.Fetch(ctx, Request{URL: trackerURL})
	require.NoError(t, err)
	assert.Equal(t, 3, f.src.calls)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kanye West", list[0].ArtistName)
	assert.Equal(t, 4, list[0].TrackCount)

	history, err := f.svc.FetchHistory(ctx, "DOC123", 10)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestService_BestView(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Fetch(context.Background(), Request{URL: trackerURL, Sheet: domain.SheetBest})
	require.NoError(t, err)
	require.Len(t, res.Artist.Albums, 1)
	assert.Equal(t, "Good Morning", res.Artist.Albums[0].Tracks[0].Title.Main)
	assert.Equal(t, 1, res.Artist.Statistics.Highlighted.Best)
	assert.Equal(t, "best", res.Sheet)

	// The cached snapshot keeps the full tree.
	full, err := f.svc.Get(context.Background(), "DOC123", domain.SheetUnreleased)
	require.NoError(t, err)
	assert.Len(t, full.Artist.Albums, 2)
}

func TestService_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Fetch(ctx, Request{URL: "https://example.com/not-a-sheet"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	assert.Equal(t, 0, f.src.calls)

	f.src.err = apperr.AccessDenied("Access denied")
	_, err = f.svc.Fetch(ctx, Request{URL: trackerURL})
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))

	history, err := f.svc.FetchHistory(ctx, "DOC123", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, constants.FetchStatusFailed, history[0].Status)
	require.NotNil(t, history[0].Error)

	_, err = f.svc.Get(ctx, "DOC123", domain.SheetUnreleased)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestService_SearchAndInvalidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Fetch(ctx, Request{URL: trackerURL})
	require.NoError(t, err)

	res, err := f.svc.SearchTracks(ctx, "DOC123", "chris martin", 5)
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "Homecoming", res.Hits[0].Title)

	require.NoError(t, f.svc.Invalidate(ctx, "DOC123"))
	_, err = f.svc.SearchTracks(ctx, "DOC123", "chris", 5)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.svc.Fetch(ctx, Request{URL: trackerURL})
	require.NoError(t, err)
	entries, err := f.svc.CacheEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, f.svc.ClearCache(ctx))
	entries, err = f.svc.CacheEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_Forget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Fetch(ctx, Request{URL: trackerURL})
	require.NoError(t, err)

	require.NoError(t, f.svc.Forget(ctx, "DOC123"))

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	history, err := f.svc.FetchHistory(ctx, "DOC123", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	_, err = f.svc.Get(ctx, "DOC123", domain.SheetUnreleased)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAliasesFromConfig(t *testing.T) {
	got := AliasesFromConfig([]config.EraAlias{{Match: "yandhi", Canonical: "Yandhi"}})
	assert.Equal(t, []parser.Alias{{Match: "yandhi", Canonical: "Yandhi"}}, got)
}
