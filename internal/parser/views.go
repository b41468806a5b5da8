package parser

import (
	"sort"
	"strings"
	"time"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
)

// ApplyView returns the tree filtered for a sheet type. The input is not modified;
// unreleased returns it as is.
func ApplyView(a *domain.Artist, sheet domain.SheetType, now time.Time) *domain.Artist {
	if a == nil {
		return nil
	}
	var eras []domain.Era
	switch sheet {
	case domain.SheetBest:
		eras = bestView(a.Albums)
	case domain.SheetRecent:
		eras = recentView(a.Albums, now)
	default:
		return a
	}

	out := *a
	out.Albums = eras
	out.Statistics.Highlighted = CountHighlighted(eras)
	out.Counts = CountActual(eras)
	return &out
}

func bestView(eras []domain.Era) []domain.Era {
	out := make([]domain.Era, 0, len(eras))
	for _, e := range eras {
		var tracks []domain.Track
		for _, t := range e.Tracks {
			if t.IsSpecial {
				tracks = append(tracks, t)
			}
		}
		if len(tracks) == 0 {
			continue
		}
		sort.SliceStable(tracks, func(i, j int) bool {
			return tracks[i].SpecialType.Rank() < tracks[j].SpecialType.Rank()
		})
		out = append(out, withTracks(e, tracks))
	}
	return out
}

type datedTrack struct {
	track domain.Track
	date  time.Time
	era   int
}

func recentView(eras []domain.Era, now time.Time) []domain.Era {
	var dated []datedTrack
	for i, e := range eras {
		for _, t := range e.Tracks {
			if d, ok := trackDate(t, now); ok {
				dated = append(dated, datedTrack{track: t, date: d, era: i})
			}
		}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].date.After(dated[j].date) })

	cutoff := now.Add(-constants.RecentWindow)
	var picked []datedTrack
	for _, d := range dated {
		if !d.date.Before(cutoff) && !d.date.After(now) {
			picked = append(picked, d)
		}
	}
	if len(picked) == 0 {
		picked = dated[:min(len(dated), constants.RecentFallbackCount)]
	}

	// Eras are ordered by their newest track, tracks newest first.
	byEra := make(map[int][]domain.Track)
	var order []int
	for _, d := range picked {
		if _, seen := byEra[d.era]; !seen {
			order = append(order, d.era)
		}
		byEra[d.era] = append(byEra[d.era], d.track)
	}
	out := make([]domain.Era, 0, len(order))
	for _, i := range order {
		out = append(out, withTracks(eras[i], byEra[i]))
	}
	return out
}

// trackDate is the leak date, falling back to the file date.
func trackDate(t domain.Track, now time.Time) (time.Time, bool) {
	if d, ok := NormalizeDate(t.LeakDate, now); ok {
		return d, true
	}
	return NormalizeDate(t.FileDate, now)
}

func withTracks(e domain.Era, tracks []domain.Track) domain.Era {
	e.Tracks = tracks
	e.Metadata = RecountMetadata(tracks)
	return e
}

// RecountMetadata derives era file counts from track type, availability and quality.
func RecountMetadata(tracks []domain.Track) domain.EraMetadata {
	var md domain.EraMetadata
	for _, t := range tracks {
		text := strings.ToLower(t.Type + " " + t.AvailableLength)
		switch {
		case t.Quality == QualityNotAvailable || strings.Contains(text, "unavailable") || strings.Contains(text, "n/a"):
			md.UnavailableFiles++
		case strings.Contains(text, "og") || t.Quality == QualityOG:
			md.OGFiles++
		case strings.Contains(text, "stem"):
			md.StemBounceFiles++
		case strings.Contains(text, "snippet"):
			md.SnippetFiles++
		case strings.Contains(text, "partial"):
			md.PartialFiles++
		case strings.Contains(text, "tagged"):
			md.TaggedFiles++
		case strings.Contains(text, "full"):
			md.FullFiles++
		}
	}
	return md
}
