package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

func track(id, era, title string, features ...string) domain.Track {
	return domain.Track{
		ID:      id,
		Era:     era,
		RawName: title,
		Title: domain.TrackTitle{
			Main:           title,
			Features:       features,
			AlternateNames: []string{},
		},
		Quality: "OG File",
	}
}

func testArtist(updated time.Time) *domain.Artist {
	return &domain.Artist{
		Name: "Kanye West",
		Albums: []domain.Era{
			{Name: "Graduation", Tracks: []domain.Track{
				track("t1", "Graduation", "Good Morning"),
				track("t2", "Graduation", "Homecoming", "Chris Martin"),
			}},
			{Name: "Yandhi", Tracks: []domain.Track{
				track("t3", "Yandhi", "New Body", "Nicki Minaj", "Ty Dolla $ign"),
				track("t4", "Yandhi", "Hurricane"),
			}},
		},
		LastUpdated: updated,
	}
}

func TestTrackIndex_Search(t *testing.T) {
	idx, err := Build(testArtist(time.Now()))
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	res, err := idx.Search(ctx, "homecoming", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "t2", res.Hits[0].TrackID)
	assert.Equal(t, "Graduation", res.Hits[0].Era)
	assert.Equal(t, "Homecoming", res.Hits[0].Title)
	assert.Equal(t, "OG File", res.Hits[0].Quality)

	res, err = idx.Search(ctx, "nicki", 10)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "t3", res.Hits[0].TrackID)

	res, err = idx.Search(ctx, "hurr", 10)
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, "t4", res.Hits[0].TrackID)

	res, err = idx.Search(ctx, "yandhi", 1)
	require.NoError(t, err)
	assert.Len(t, res.Hits, 1)
	assert.Equal(t, uint64(2), res.Total)

	res, err = idx.Search(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	first := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	a := testArtist(first)

	idx1, err := r.For("doc", a)
	require.NoError(t, err)
	idx2, err := r.For("doc", a)
	require.NoError(t, err)
	assert.Same(t, idx1, idx2)

	b := testArtist(first.Add(time.Hour))
	idx3, err := r.For("doc", b)
	require.NoError(t, err)
	assert.NotSame(t, idx1, idx3)

	r.Drop("doc")
	idx4, err := r.For("doc", b)
	require.NoError(t, err)
	assert.NotSame(t, idx3, idx4)
}
