package parser

import (
	"strings"

	"github.com/cesargomez89/leaktracker/internal/domain"
)

// Alias folds every era whose name contains Match (case-insensitive) into Canonical.
type Alias struct {
	Match     string
	Canonical string
}

// DefaultAliases are the merge rules used when none are configured.
func DefaultAliases() []Alias {
	return []Alias{{Match: "donda 2", Canonical: "Donda 2"}}
}

func (al Alias) matches(name string) bool {
	m := strings.ToLower(strings.TrimSpace(al.Match))
	return m != "" && strings.Contains(strings.ToLower(name), m)
}

// Consolidate merges aliased eras into their canonical era. The merged era takes
// the position of the first era that matched; other eras pass through untouched.
func Consolidate(eras []domain.Era, aliases []Alias) []domain.Era {
	if len(aliases) == 0 {
		return eras
	}

	out := make([]domain.Era, 0, len(eras))
	merged := make(map[string]int)

	for _, e := range eras {
		alias, ok := findAlias(e.Name, aliases)
		if !ok {
			out = append(out, e)
			continue
		}

		idx, exists := merged[alias.Canonical]
		if !exists {
			idx = len(out)
			merged[alias.Canonical] = idx
			out = append(out, domain.Era{
				ID:             e.ID,
				Name:           alias.Canonical,
				AlternateNames: []string{},
				Tracks:         []domain.Track{},
			})
		}
		mergeInto(&out[idx], e)
	}
	return out
}

func findAlias(name string, aliases []Alias) (Alias, bool) {
	for _, al := range aliases {
		if al.matches(name) {
			return al, true
		}
	}
	return Alias{}, false
}

func mergeInto(dst *domain.Era, src domain.Era) {
	if src.Name != dst.Name {
		dst.AlternateNames = appendUnique(dst.AlternateNames, src.Name)
	}
	for _, alt := range src.AlternateNames {
		if alt != dst.Name {
			dst.AlternateNames = appendUnique(dst.AlternateNames, alt)
		}
	}

	dst.Description = concatDistinct(dst.Description, src.Description, " ")
	dst.Notes = concatDistinct(dst.Notes, src.Notes, "\n")
	if dst.Picture == "" {
		dst.Picture = src.Picture
	}

	dst.Metadata = addMetadata(dst.Metadata, src.Metadata)

	for _, t := range src.Tracks {
		t.Era = dst.Name
		dst.Tracks = append(dst.Tracks, t)
	}
}

func concatDistinct(have, add, sep string) string {
	add = strings.TrimSpace(add)
	switch {
	case add == "" || strings.Contains(have, add):
		return have
	case have == "":
		return add
	}
	return have + sep + add
}

func addMetadata(a, b domain.EraMetadata) domain.EraMetadata {
	return domain.EraMetadata{
		OGFiles:          a.OGFiles + b.OGFiles,
		FullFiles:        a.FullFiles + b.FullFiles,
		TaggedFiles:      a.TaggedFiles + b.TaggedFiles,
		PartialFiles:     a.PartialFiles + b.PartialFiles,
		SnippetFiles:     a.SnippetFiles + b.SnippetFiles,
		StemBounceFiles:  a.StemBounceFiles + b.StemBounceFiles,
		UnavailableFiles: a.UnavailableFiles + b.UnavailableFiles,
	}
}
