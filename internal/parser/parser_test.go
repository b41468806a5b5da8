package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/leaktracker/internal/domain"
	"github.com/cesargomez89/leaktracker/internal/sheets"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func table(rows ...[]string) *sheets.Table {
	return &sheets.Table{Rows: rows}
}

func parse(t *sheets.Table) *domain.Artist {
	return Parse(t, Options{Now: testNow, Aliases: DefaultAliases()})
}

func eraNames(a *domain.Artist) []string {
	names := make([]string, 0, len(a.Albums))
	for _, e := range a.Albums {
		names = append(names, e.Name)
	}
	return names
}

func TestParse_EraThenTrack(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"Era Name", ""},
		[]string{"", "Track One"},
	))

	require.Len(t, a.Albums, 1)
	era := a.Albums[0]
	assert.Equal(t, "Era Name", era.Name)
	require.Len(t, era.Tracks, 1)
	assert.Equal(t, "Track One", era.Tracks[0].Title.Main)
	assert.Equal(t, "Era Name", era.Tracks[0].Era)
	assert.NotEmpty(t, era.ID)
	assert.Equal(t, 1, a.Counts.Tracks)
	assert.Equal(t, testNow, a.LastUpdated)
}

func TestParse_SubEra(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"Donda", ""},
		[]string{"", "Jail"},
		[]string{"Sub-Era", "Alternate Version"},
		[]string{"", "Jail pt 2"},
	))

	assert.Equal(t, []string{"Donda", "Donda: Alternate Version"}, eraNames(a))
	require.Len(t, a.Albums[1].Tracks, 1)
	assert.Equal(t, "Donda: Alternate Version", a.Albums[1].Tracks[0].Era)
}

func TestParse_MiscellaneousDefault(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"", "Orphan"},
	))
	assert.Equal(t, []string{"Miscellaneous"}, eraNames(a))
}

func TestParse_InlineEraColumn(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name", "Notes"},
		[]string{"Graduation", "Good Morning", "intro"},
		[]string{"Graduation", "Champion", ""},
		[]string{"Yeezus", "Blood on the Leaves", ""},
	))
	assert.Equal(t, []string{"Graduation", "Yeezus"}, eraNames(a))
	assert.Len(t, a.Albums[0].Tracks, 2)
	assert.Equal(t, "intro", a.Albums[0].Tracks[0].Notes)
}

func TestParse_MetadataRow(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name", "Notes"},
		[]string{"3 OG Files\n5 Full\n2 Unavailable", "808s & Heartbreak (808s)", "https://i.imgur.com/cover.png"},
		[]string{"", "Coldest Winter"},
	))

	require.Len(t, a.Albums, 1)
	era := a.Albums[0]
	assert.Equal(t, "808s & Heartbreak", era.Name)
	assert.Equal(t, []string{"808s"}, era.AlternateNames)
	assert.Equal(t, "https://i.imgur.com/cover.png", era.Picture)
	assert.Equal(t, domain.EraMetadata{OGFiles: 3, FullFiles: 5, UnavailableFiles: 2}, era.Metadata)
}

func TestParse_ContinuationRows(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"Graduation", ""},
		[]string{"(Recorded 2005 - 2007)", ""},
		[]string{"The third studio album, built around stadium synths and sampling.", ""},
		[]string{"", "Stronger"},
	))

	require.Len(t, a.Albums, 1)
	era := a.Albums[0]
	assert.Equal(t, "(Recorded 2005 - 2007)", era.Notes)
	assert.Equal(t, "The third studio album, built around stadium synths and sampling.", era.Description)
}

func TestParse_EmptyEraDropped(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"Empty Era", ""},
		[]string{"Real Era", ""},
		[]string{"", "Song"},
	))
	assert.Equal(t, []string{"Real Era"}, eraNames(a))
}

func TestParse_SkipsTemplateRows(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"Template Era", "Song Name Here"},
		[]string{"", "How to add a song"},
		[]string{"Links", "Quality"},
		[]string{"Graduation", ""},
		[]string{"", "Stronger"},
	))
	assert.Equal(t, []string{"Graduation"}, eraNames(a))
	assert.Equal(t, 1, a.Counts.Tracks)
}

func TestParse_SpecialMarkers(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"Graduation", ""},
		[]string{"", "⭐ Stronger"},
		[]string{"", "🏆 ✨ Homecoming"},
		[]string{"", "Champion"},
	))

	tracks := a.Albums[0].Tracks
	require.Len(t, tracks, 3)
	assert.Equal(t, domain.SpecialBest, tracks[0].SpecialType)
	assert.Equal(t, "Stronger", tracks[0].Title.Main)
	assert.Equal(t, domain.SpecialGrail, tracks[1].SpecialType)
	assert.Equal(t, "Homecoming", tracks[1].Title.Main)
	assert.False(t, tracks[2].IsSpecial)
	assert.Equal(t, 2, a.Counts.Highlighted)
}

func TestParse_FooterStatistics(t *testing.T) {
	a := parse(table(
		[]string{"Era", "Name"},
		[]string{"Graduation", ""},
		[]string{"", "Stronger"},
		[]string{"Update Notes", ""},
		[]string{"Ignored Era", ""},
		[]string{"", "Ignored Track"},
		[]string{"Total Links", "120 Links\n4 Missing Links"},
		[]string{"Quality Summary", "5 Lossless\n3 HQ"},
		[]string{"", "2 ⭐\n1 🏆"},
	))

	assert.Equal(t, []string{"Graduation"}, eraNames(a))
	assert.Equal(t, 120, a.Statistics.Links.Total)
	assert.Equal(t, 4, a.Statistics.Links.Missing)
	assert.Equal(t, 5, a.Statistics.Quality.Lossless)
	assert.Equal(t, 3, a.Statistics.Quality.HighQuality)
	assert.Equal(t, 2, a.Statistics.Highlighted.Best)
	assert.Equal(t, 1, a.Statistics.Highlighted.Grails)
	assert.Equal(t, 0, a.Counts.Links)
}

func TestParse_ArtistName(t *testing.T) {
	a := Parse(table(
		[]string{"Kanye West Tracker", ""},
		[]string{"Era", "Name"},
		[]string{"", "Song"},
	), Options{Now: testNow})
	assert.Equal(t, "Kanye West", a.Name)

	a = Parse(table([]string{"Era", "Name"}), Options{Now: testNow, ArtistName: "Ye"})
	assert.Equal(t, "Ye", a.Name)

	a = Parse(table([]string{"Era", "Name"}), Options{Now: testNow})
	assert.Equal(t, unknownArtist, a.Name)
}

func TestParse_LabelFallback(t *testing.T) {
	desc := "The third studio album, built around stadium synths and sampling."
	tbl := &sheets.Table{
		Cols: []sheets.Column{
			{ID: "A", Label: "Graduation\n(2007 - 2008)\n" + desc},
			{ID: "B", Label: "Name"},
		},
		Rows: [][]string{
			{"Graduation", ""},
			{"", "Stronger"},
		},
	}

	h := ResolveHeader(tbl)
	assert.Equal(t, -1, h.Index)

	a := parse(tbl)
	require.Len(t, a.Albums, 1)
	assert.Equal(t, desc, a.Albums[0].Description)
	assert.Equal(t, "(2007 - 2008)", a.Albums[0].Notes)
	assert.Len(t, a.Albums[0].Tracks, 1)
}

func TestResolveHeader_KeywordRow(t *testing.T) {
	h := ResolveHeader(table(
		[]string{"Kanye West Tracker"},
		[]string{"Album", "Song Title", "Quality", "Link(s)"},
	))
	assert.Equal(t, 1, h.Index)
	assert.Equal(t, 1, h.Columns.Index(FieldName))
	assert.Equal(t, 2, h.Columns.Index(FieldQuality))
}

func TestParse_ArtFallback(t *testing.T) {
	a := Parse(table(
		[]string{"Era", "Name"},
		[]string{"Graduation", ""},
		[]string{"", "Stronger"},
	), Options{Now: testNow, Art: sheets.ArtIndex{"graduation": "https://i.imgur.com/g.png"}})
	assert.Equal(t, "https://i.imgur.com/g.png", a.Albums[0].Picture)
}

func TestParse_EndToEnd(t *testing.T) {
	raw := `/*O_o*/
google.visualization.Query.setResponse({"version":"0.6","status":"ok","table":{"cols":[{"id":"A","label":""},{"id":"B","label":""},{"id":"C","label":""},{"id":"D","label":""}],"rows":[
{"c":[{"v":"Era"},{"v":"Name"},{"v":"Quality"},{"v":"Link(s)"}]},
{"c":[{"v":"Graduation"},null,null,null]},
{"c":[null,{"v":"Good Morning (Demo)"},{"v":"OG"},{"v":"https://pillows.su/f/0123456789abcdef0123456789abcdef"}]}
]}});`

	tbl, err := sheets.Unwrap(raw)
	require.NoError(t, err)

	a := Parse(tbl, Options{Now: testNow, ArtistName: "Kanye West"})
	require.Len(t, a.Albums, 1)
	require.Len(t, a.Albums[0].Tracks, 1)

	track := a.Albums[0].Tracks[0]
	assert.Equal(t, "Good Morning", track.Title.Main)
	assert.Equal(t, "OG File", track.Quality)
	require.Len(t, track.Links, 1)
	assert.Equal(t, domain.Link{
		URL:      "https://pillows.su/f/0123456789abcdef0123456789abcdef",
		Type:     domain.LinkDownload,
		Platform: "Pillowcase",
		IsValid:  true,
	}, track.Links[0])
	assert.Equal(t, "https://api.pillows.su/api/download/0123456789abcdef0123456789abcdef", track.PlayableURL())
}

func TestParse_TrackIDsDeterministic(t *testing.T) {
	tbl := table(
		[]string{"Era", "Name"},
		[]string{"Graduation", ""},
		[]string{"", "Stronger"},
		[]string{"", "Stronger"},
	)
	a, b := parse(tbl), parse(tbl)
	assert.Equal(t, a.Albums[0].Tracks[0].ID, b.Albums[0].Tracks[0].ID)
	assert.NotEqual(t, a.Albums[0].Tracks[0].ID, a.Albums[0].Tracks[1].ID)
}

func TestConsolidate(t *testing.T) {
	eras := []domain.Era{
		{Name: "Donda 2", Description: "Stem Player era", Tracks: []domain.Track{{ID: "a", Era: "Donda 2"}}},
		{Name: "Other", Tracks: []domain.Track{{ID: "x", Era: "Other"}}},
		{Name: "Donda 2 (2025 Version)", Picture: "https://i.imgur.com/d2.png", Description: "Stem Player era",
			Metadata: domain.EraMetadata{OGFiles: 2},
			Tracks:   []domain.Track{{ID: "b", Era: "Donda 2 (2025 Version)"}}},
	}

	got := Consolidate(eras, DefaultAliases())

	require.Len(t, got, 2)
	assert.Equal(t, "Donda 2", got[0].Name)
	assert.Equal(t, "Other", got[1].Name)
	require.Len(t, got[0].Tracks, 2)
	assert.Equal(t, "a", got[0].Tracks[0].ID)
	assert.Equal(t, "b", got[0].Tracks[1].ID)
	for _, tr := range got[0].Tracks {
		assert.Equal(t, "Donda 2", tr.Era)
	}
	assert.Equal(t, "Stem Player era", got[0].Description)
	assert.Equal(t, "https://i.imgur.com/d2.png", got[0].Picture)
	assert.Contains(t, got[0].AlternateNames, "Donda 2 (2025 Version)")
	assert.Equal(t, 2, got[0].Metadata.OGFiles)
	assert.Equal(t, "Donda 2 (2025 Version)", eras[2].Tracks[0].Era)
}

func TestConsolidate_NoAliases(t *testing.T) {
	eras := []domain.Era{{Name: "Donda 2"}, {Name: "donda 2 (alt)"}}
	assert.Equal(t, eras, Consolidate(eras, nil))
}
