package parser

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/domain"
)

var footerMarkers = []string{"update notes", "total links", "quality summary", "availability", "tracker guidelines"}

var templateMarkers = []string{"how to", "template", "add a new entry"}

var strayLabels = map[string]bool{
	"links": true, "link": true, "link(s)": true, "availability": true, "quality": true, "status": true,
}

// specialMarkers are checked in order; the first present marker sets the type.
var specialMarkers = []domain.SpecialType{domain.SpecialGrail, domain.SpecialBest, domain.SpecialWanted}

type eraBuilder struct {
	name        string
	alts        []string
	description string
	notes       []string
	picture     string
	metadata    domain.EraMetadata
	tracks      []domain.Track
}

func (b *eraBuilder) addNote(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	for _, n := range b.notes {
		if n == s {
			return
		}
	}
	b.notes = append(b.notes, s)
}

func (b *eraBuilder) addDescription(s string) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(b.description, s) {
		return
	}
	if b.description == "" {
		b.description = s
		return
	}
	b.description += " " + s
}

// accumulator is the state threaded through the row pass.
type accumulator struct {
	header  Header
	current string
	// parent is the last top-level era; sub-eras are named under it.
	parent string
	order  []string
	eras   map[string]*eraBuilder
	tracks []domain.Track
}

func newAccumulator(h Header) *accumulator {
	return &accumulator{header: h, eras: make(map[string]*eraBuilder)}
}

// era returns the builder for name, creating it with any label-mined detail.
func (a *accumulator) era(name string) *eraBuilder {
	if b, ok := a.eras[name]; ok {
		return b
	}
	b := &eraBuilder{name: name, alts: []string{}}
	if info, ok := a.header.Labels[name]; ok {
		b.description = info.description
		if info.timeline != "" {
			b.notes = append(b.notes, info.timeline)
		}
	}
	a.eras[name] = b
	a.order = append(a.order, name)
	return b
}

// row is one data row with its positional cells resolved.
type row struct {
	index  int
	cells  []string
	first  string
	second string
	cols   Columns
	// nameCol is the column holding the track name.
	nameCol int
}

func (r row) cell(f Field) string {
	i := r.cols.Index(f)
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// after returns the cells to the right of the name column.
func (r row) after() []string {
	if r.nameCol+1 >= len(r.cells) {
		return nil
	}
	return r.cells[r.nameCol+1:]
}

type rowRule struct {
	name  string
	guard func(a *accumulator, r row) bool
	apply func(a *accumulator, r row)
}

// rowRules are evaluated top to bottom and the first guard that holds wins.
// The guards overlap, so the order is significant.
var rowRules = []rowRule{
	{"skip", isSkipRow, func(*accumulator, row) {}},
	{"sub-era", isSubEraRow, applySubEra},
	{"era-metadata", isMetadataRow, applyMetadataRow},
	{"era-name", isEraNameRow, applyEraNameRow},
	{"era-continuation", isContinuationRow, applyContinuation},
	{"track", isTrackRow, applyTrack},
}

func (a *accumulator) process(r row) string {
	for _, rule := range rowRules {
		if rule.guard(a, r) {
			rule.apply(a, r)
			return rule.name
		}
	}
	return ""
}

func isSkipRow(_ *accumulator, r row) bool {
	name := strings.ToLower(r.second)
	for _, m := range templateMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(r.first), "template era") {
		return true
	}
	return strayLabels[strings.ToLower(r.first)] && strayLabels[strings.ToLower(r.second)]
}

func isSubEraRow(_ *accumulator, r row) bool {
	first := strings.ToLower(r.first)
	if !strings.Contains(first, "sub-era") && first != "another:" {
		return false
	}
	return r.second != "" && !isBareDate(r.second) && !isURL(r.second)
}

func applySubEra(a *accumulator, r row) {
	name := firstLine(r.second)
	if a.parent != "" {
		name = a.parent + ": " + name
	}
	b := a.era(name)
	d := scanEraCells(r.after())
	for _, n := range d.notes {
		b.addNote(n)
	}
	if b.description == "" {
		b.description = d.description
	}
	if b.picture == "" {
		b.picture = d.picture
	}
	a.current = name
}

func isMetadataRow(_ *accumulator, r row) bool {
	return isMetadataShaped(r.first) && r.second != "" && !isBareDate(r.second) && !isURL(r.second)
}

func applyMetadataRow(a *accumulator, r row) {
	parsed := ParseEraName(r.second)
	if parsed.Name == "" {
		return
	}
	b := a.mergeEra(parsed, r.after())
	md := CountMetadata(r.first)
	if !md.IsZero() {
		b.metadata = md
	}
	a.current, a.parent = parsed.Name, parsed.Name
}

func isEraNameRow(a *accumulator, r row) bool {
	if r.first == "" || r.second != "" {
		return false
	}
	line := firstLine(r.first)
	if isBareDate(line) || isTime(line) || isURL(line) || isMetadataShaped(r.first) {
		return false
	}
	if len(line) >= constants.MinDescriptionLen || strings.HasPrefix(line, "(") {
		return false
	}
	return a.current == "" || !isTimelineText(line)
}

func applyEraNameRow(a *accumulator, r row) {
	parsed := ParseEraName(r.first)
	if parsed.Name == "" {
		return
	}
	var rest []string
	if len(r.cells) > 1 {
		rest = r.cells[1:]
	}
	a.mergeEra(parsed, rest)
	a.current, a.parent = parsed.Name, parsed.Name
}

// mergeEra creates or updates the era named by parsed. Label-mined detail set at
// creation wins; row-mined description and notes only fill gaps.
func (a *accumulator) mergeEra(parsed EraName, cells []string) *eraBuilder {
	b := a.era(parsed.Name)
	for _, alt := range parsed.AlternateNames {
		b.alts = appendUnique(b.alts, alt)
	}
	if b.description == "" {
		b.description = parsed.Description
	}
	d := scanEraCells(cells)
	if b.picture == "" {
		b.picture = d.picture
	}
	if b.description == "" {
		b.description = d.description
	}
	if len(b.notes) == 0 {
		for _, n := range d.notes {
			b.addNote(n)
		}
	}
	return b
}

func isContinuationRow(a *accumulator, r row) bool {
	if a.current == "" || r.first == "" || r.second != "" {
		return false
	}
	_, ok := a.eras[a.current]
	return ok
}

func applyContinuation(a *accumulator, r row) {
	b := a.eras[a.current]
	var later []string
	for _, c := range r.cells {
		c = strings.TrimSpace(c)
		if c != "" && c != r.first && hasBalancedParenthetical(c) {
			later = append(later, c)
		}
	}
	switch {
	case len(later) > 0:
		b.addNote(strings.Join(append([]string{r.first}, later...), " "))
	case isTimelineText(r.first):
		b.addNote(r.first)
	case strings.HasPrefix(r.first, "(") || len(r.first) > constants.MinNoteTextLen:
		b.addDescription(r.first)
	}
}

func isTrackRow(_ *accumulator, r row) bool {
	return r.second != ""
}

func applyTrack(a *accumulator, r row) {
	if r.first != "" && r.first != r.second && looksLikeEraName(firstLine(r.first)) {
		parsed := ParseEraName(r.first)
		if parsed.Name != "" && parsed.Name != a.current && !strings.HasPrefix(a.current, parsed.Name+": ") {
			a.mergeEra(parsed, nil)
			a.current, a.parent = parsed.Name, parsed.Name
		}
	}
	if a.current == "" {
		a.current = constants.MiscellaneousEra
	}
	b := a.era(a.current)

	t := buildTrack(a.current, r, len(a.tracks))
	b.tracks = append(b.tracks, t)
	a.tracks = append(a.tracks, t)
}

func buildTrack(era string, r row, index int) domain.Track {
	raw := r.second
	name, special := stripSpecial(raw)
	title := DecomposeTitle(strings.Join(splitLines(name), " "))

	t := domain.Track{
		ID:              trackID(era, raw, index),
		Era:             era,
		Title:           title,
		RawName:         raw,
		Notes:           r.cell(FieldNotes),
		TrackLength:     r.cell(FieldTrackLength),
		FileDate:        r.cell(FieldFileDate),
		LeakDate:        r.cell(FieldLeakDate),
		AvailableLength: r.cell(FieldAvailableLength),
		Type:            r.cell(FieldType),
		Quality:         StandardizeQuality(r.cell(FieldQuality)),
		IsSpecial:       special != domain.SpecialUnknown,
		SpecialType:     special,
	}

	if r.cols.Has(FieldLinks) {
		t.Links = ExtractLinks(r.cell(FieldLinks))
	} else {
		t.Links = ExtractLinks(strings.Join(r.after(), " "))
	}
	if t.Links == nil {
		t.Links = []domain.Link{}
	}
	return t
}

// stripSpecial removes highlight markers from a name and reports the strongest one.
func stripSpecial(raw string) (string, domain.SpecialType) {
	special := domain.SpecialUnknown
	for _, m := range specialMarkers {
		if strings.Contains(raw, string(m)) {
			special = m
			break
		}
	}
	out := raw
	for _, m := range specialMarkers {
		out = strings.ReplaceAll(out, string(m), "")
	}
	// Variation selector left over from emoji presentation forms.
	out = strings.ReplaceAll(out, "\uFE0F", "")
	return strings.TrimSpace(out), special
}

func trackID(era, name string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(era+"|"+name+"|"+strconv.Itoa(index))).String()
}

func isFooterRow(first string) bool {
	lower := strings.ToLower(first)
	for _, m := range footerMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
