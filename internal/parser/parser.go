// Package parser turns a tracker sheet into the artist/era/track tree.
//
// Parsing never fails on a malformed row: unrecognized rows are skipped and
// missing fields are left empty. Hard failures belong to fetching and unwrapping.
package parser

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/logger"
	"github.com/cesargomez89/leaktracker/internal/sheets"
)

const unknownArtist = "Unknown Artist"

// Options tune a single Parse call.
type Options struct {
	// ArtistName overrides the name found in the sheet.
	ArtistName string
	Aliases    []Alias
	Art        sheets.ArtIndex
	Now        time.Time
	Logger     *logger.Logger
}

// Parse builds an Artist from a tracker table.
func Parse(t *sheets.Table, opts Options) *domain.Artist {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if t == nil {
		t = &sheets.Table{}
	}

	header := ResolveHeader(t)
	eraCol := header.Columns.Index(FieldEra)
	if eraCol < 0 {
		eraCol = 0
	}
	nameCol := header.Columns.Index(FieldName)
	if nameCol < 0 {
		nameCol = 1
	}

	acc := newAccumulator(header)
	footer := -1
	for i := header.Index + 1; i < len(t.Rows); i++ {
		r := row{
			index:   i,
			cells:   t.Rows[i],
			first:   t.Cell(i, eraCol),
			second:  t.Cell(i, nameCol),
			cols:    header.Columns,
			nameCol: nameCol,
		}
		if isFooterRow(r.first) {
			footer = i
			break
		}
		acc.process(r)
	}

	eras := finalizeEras(acc, opts.Art)
	eras = Consolidate(eras, opts.Aliases)
	for i := range eras {
		eras[i].ID = eraID(eras[i].Name)
	}

	artist := &domain.Artist{
		Name:        artistName(t, header, opts.ArtistName),
		Albums:      eras,
		Statistics:  ExtractStatistics(t.Rows, footer),
		Counts:      CountActual(eras),
		LastUpdated: now,
	}

	warnMismatch(log, artist)
	log.Debug("Tracker parsed",
		"artist", artist.Name,
		"eras", artist.Counts.Eras,
		"tracks", artist.Counts.Tracks,
		"header_row", header.Index,
		"footer_row", footer,
	)
	return artist
}

// finalizeEras orders eras as first seen and drops those with neither tracks,
// notes nor metadata.
func finalizeEras(acc *accumulator, art sheets.ArtIndex) []domain.Era {
	out := make([]domain.Era, 0, len(acc.order))
	for _, name := range acc.order {
		b := acc.eras[name]
		notes := strings.Join(b.notes, "\n")
		if len(b.tracks) == 0 && notes == "" && b.metadata.IsZero() {
			continue
		}
		picture := b.picture
		if picture == "" {
			picture = art.Lookup(name)
		}
		tracks := b.tracks
		if tracks == nil {
			tracks = []domain.Track{}
		}
		out = append(out, domain.Era{
			Name:           name,
			AlternateNames: b.alts,
			Picture:        picture,
			Description:    b.description,
			Tracks:         tracks,
			Metadata:       b.metadata,
			Notes:          notes,
		})
	}
	return out
}

func eraID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("era|"+name)).String()
}

// artistName prefers the override, then a title row above the header, then the
// first column label.
func artistName(t *sheets.Table, h Header, override string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	for i := 0; i < h.Index && i < len(t.Rows); i++ {
		for _, c := range t.Rows[i] {
			if name := trackerTitle(c); name != "" {
				return name
			}
		}
	}
	for _, l := range t.Labels() {
		if name := trackerTitle(l); name != "" && !strings.EqualFold(name, "era") {
			return name
		}
	}
	return unknownArtist
}

func trackerTitle(cell string) string {
	line := firstLine(cell)
	if line == "" || isURL(line) || len(line) >= 60 {
		return ""
	}
	lower := strings.ToLower(line)
	idx := strings.Index(lower, " tracker")
	if idx <= 0 {
		return ""
	}
	return strings.TrimSpace(line[:idx])
}

func warnMismatch(log *logger.Logger, a *domain.Artist) {
	mined := a.Statistics.Highlighted.Best + a.Statistics.Highlighted.Special + a.Statistics.Highlighted.Grails
	if mined > 0 && mined != a.Counts.Highlighted {
		log.Warn("Highlighted count mismatch", "mined", mined, "actual", a.Counts.Highlighted)
	}
	if a.Statistics.Links.Total > 0 && a.Statistics.Links.Total != a.Counts.Links {
		log.Warn("Link count mismatch", "mined", a.Statistics.Links.Total, "actual", a.Counts.Links)
	}
}
