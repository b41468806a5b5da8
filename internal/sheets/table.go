package sheets

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Column is the id/label pair of one sheet column. Labels may span several lines.
type Column struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Table is a normalized 2-D view of a sheet: blank cells are "".
type Table struct {
	Cols []Column   `json:"cols"`
	Rows [][]string `json:"rows"`
}

// Cell returns the trimmed cell at (row, col), "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Labels returns the column labels in order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		out[i] = c.Label
	}
	return out
}

type gvizResponse struct {
	Status string    `json:"status"`
	Table  gvizTable `json:"table"`
}

type gvizTable struct {
	Cols []gvizCol `json:"cols"`
	Rows []gvizRow `json:"rows"`
}

type gvizCol struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizCell struct {
	V any    `json:"v"`
	F string `json:"f"`
}

func (r *gvizResponse) ToTable() *Table {
	t := &Table{
		Cols: make([]Column, len(r.Table.Cols)),
		Rows: make([][]string, 0, len(r.Table.Rows)),
	}
	for i, c := range r.Table.Cols {
		t.Cols[i] = Column{ID: c.ID, Label: c.Label}
	}
	for _, row := range r.Table.Rows {
		cells := make([]string, len(row.C))
		for i, c := range row.C {
			cells[i] = c.String()
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// String prefers the formatted value, then the raw value.
func (c *gvizCell) String() string {
	if c == nil {
		return ""
	}
	if c.F != "" {
		return c.F
	}
	switch v := c.V.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
