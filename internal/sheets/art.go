package sheets

import (
	"context"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/logger"
)

// ArtSheetCandidates are the tab names tried, in order, when looking for cover art.
var ArtSheetCandidates = []string{"Art", "Album Art", "Art Sheet", "Covers", "Artwork", "Album Covers"}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".avif": true,
}

var imageHosts = []string{
	"imgur.com",
	"ibb.co",
	"postimg.cc",
	"cdn.discordapp.com",
	"media.discordapp.net",
	"googleusercontent.com",
	"pbs.twimg.com",
	"i.redd.it",
	"images.genius.com",
	"i.scdn.co",
}

// IsImageURL reports whether s points at an image, by extension or hosting domain.
func IsImageURL(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if imageExtensions[strings.ToLower(path.Ext(u.Path))] {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range imageHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ArtIndex maps era names to cover image URLs.
type ArtIndex map[string]string

// Lookup resolves a picture for eraName: exact, then case-insensitive, then containment.
func (a ArtIndex) Lookup(eraName string) string {
	if len(a) == 0 || eraName == "" {
		return ""
	}
	if u, ok := a[eraName]; ok {
		return u
	}
	lower := strings.ToLower(eraName)
	names := a.names()
	for _, name := range names {
		if strings.ToLower(name) == lower {
			return a[name]
		}
	}
	for _, name := range names {
		n := strings.ToLower(name)
		if strings.Contains(lower, n) || strings.Contains(n, lower) {
			return a[name]
		}
	}
	return ""
}

// names returns the keys longest first, ties broken alphabetically, so the
// most specific era wins a containment match.
func (a ArtIndex) names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

// ExtractArt reads name/image pairs from an art tab. ok is false when the table
// does not look like an art sheet.
func ExtractArt(t *Table) (ArtIndex, bool) {
	if t == nil {
		return nil, false
	}
	idx := ArtIndex{}
	for _, row := range t.Rows {
		var name, img string
		for _, cell := range row {
			c := strings.TrimSpace(cell)
			if c == "" {
				continue
			}
			if IsImageURL(c) {
				if img == "" {
					img = c
				}
				continue
			}
			if name == "" && !strings.HasPrefix(c, "http") {
				name = strings.TrimSpace(strings.SplitN(c, "\n", 2)[0])
			}
		}
		if name != "" && img != "" {
			if _, exists := idx[name]; !exists {
				idx[name] = img
			}
		}
	}
	return idx, len(idx) > 0
}

// FindArt tries each candidate tab until one structurally matches. Every failure
// is swallowed; an empty index means no art was found.
func FindArt(ctx context.Context, src Source, docID string, log *logger.Logger) ArtIndex {
	if log == nil {
		log = logger.Default()
	}
	for i, name := range ArtSheetCandidates {
		if i >= constants.MaxArtCandidates {
			break
		}
		t, err := src.FetchSheet(ctx, docID, name)
		if err != nil {
			log.Debug("Art sheet candidate failed", "sheet", name, "error", err)
			continue
		}
		if idx, ok := ExtractArt(t); ok {
			log.Debug("Art sheet found", "sheet", name, "entries", len(idx))
			return idx
		}
	}
	return ArtIndex{}
}
