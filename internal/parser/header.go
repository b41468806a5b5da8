package parser

import (
	"strings"

	"github.com/cesargomez89/leaktracker/internal/constants"
	"github.com/cesargomez89/leaktracker/internal/sheets"
)

// Field is a canonical tracker column.
type Field int

const (
	FieldEra Field = iota
	FieldName
	FieldNotes
	FieldTrackLength
	FieldLeakDate
	FieldFileDate
	FieldType
	FieldAvailableLength
	FieldQuality
	FieldLinks
	fieldCount
)

type columnRule struct {
	field Field
	match func(h string) bool
}

func contains(words ...string) func(string) bool {
	return func(h string) bool {
		for _, w := range words {
			if strings.Contains(h, w) {
				return true
			}
		}
		return false
	}
}

func equals(words ...string) func(string) bool {
	return func(h string) bool {
		for _, w := range words {
			if h == w {
				return true
			}
		}
		return false
	}
}

func anyOf(fns ...func(string) bool) func(string) bool {
	return func(h string) bool {
		for _, fn := range fns {
			if fn(h) {
				return true
			}
		}
		return false
	}
}

// columnRules are tried in order per header cell; a header maps to at most one field.
var columnRules = []columnRule{
	{FieldEra, contains("era")},
	{FieldLeakDate, contains("leak")},
	{FieldTrackLength, anyOf(contains("track length", "duration"), equals("length"))},
	{FieldAvailableLength, contains("available")},
	{FieldName, anyOf(contains("name", "title"), equals("track", "song"))},
	{FieldNotes, contains("note")},
	{FieldFileDate, contains("date")},
	{FieldType, contains("type")},
	{FieldQuality, contains("quality")},
	{FieldLinks, contains("link", "url")},
}

var headerKeywords = []string{"era", "name", "track", "song", "quality", "link", "date", "notes", "length"}

// Columns maps canonical fields to column indexes; -1 means absent.
type Columns [fieldCount]int

// Index returns the column for f, or -1.
func (c Columns) Index(f Field) int { return c[f] }

// Has reports whether f was mapped.
func (c Columns) Has(f Field) bool { return c[f] >= 0 }

// MapColumns assigns header cells to fields; the first matching column wins.
func MapColumns(headers []string) Columns {
	var cols Columns
	for i := range cols {
		cols[i] = -1
	}
	for i, h := range headers {
		key := strings.ToLower(firstLine(h))
		if key == "" {
			continue
		}
		for _, rule := range columnRules {
			if rule.match(key) {
				if cols[rule.field] < 0 {
					cols[rule.field] = i
				}
				break
			}
		}
	}
	return cols
}

// Header is the located header row. Index is -1 when headers came from column labels.
type Header struct {
	Index   int
	Cells   []string
	Columns Columns
	// Labels holds era detail mined from multi-line column labels, keyed by era name.
	Labels map[string]labelInfo
}

// ResolveHeader finds the header row within the first rows of the table.
func ResolveHeader(t *sheets.Table) Header {
	limit := min(len(t.Rows), constants.HeaderScanRows)

	for i := 0; i < limit; i++ {
		if isExplicitHeader(t.Rows[i]) {
			return newHeader(i, t.Rows[i], nil)
		}
	}

	for i := 0; i < limit; i++ {
		if keywordCells(t.Rows[i]) >= 3 {
			return newHeader(i, t.Rows[i], nil)
		}
	}

	if labels := t.Labels(); hasLabels(labels) {
		mined := make(map[string]labelInfo)
		headers := make([]string, len(labels))
		for i, l := range labels {
			if info, ok := mineLabel(l); ok {
				if _, exists := mined[info.name]; !exists {
					mined[info.name] = info
				}
			}
			headers[i] = firstLine(l)
		}
		return newHeader(-1, headers, mined)
	}

	if len(t.Rows) > 0 {
		return newHeader(0, t.Rows[0], nil)
	}
	return newHeader(-1, nil, nil)
}

func newHeader(idx int, cells []string, labels map[string]labelInfo) Header {
	if labels == nil {
		labels = map[string]labelInfo{}
	}
	return Header{Index: idx, Cells: cells, Columns: MapColumns(cells), Labels: labels}
}

func isExplicitHeader(row []string) bool {
	var era, name bool
	for _, c := range row {
		switch strings.ToLower(strings.TrimSpace(c)) {
		case "era":
			era = true
		case "name", "track name", "song name":
			name = true
		}
	}
	return era && name
}

func keywordCells(row []string) int {
	n := 0
	for _, c := range row {
		lower := strings.ToLower(c)
		for _, k := range headerKeywords {
			if strings.Contains(lower, k) {
				n++
				break
			}
		}
	}
	return n
}

func hasLabels(labels []string) bool {
	for _, l := range labels {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}
