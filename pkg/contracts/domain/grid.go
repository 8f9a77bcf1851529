package domain

import "strings"

// RawGrid is an untyped, header-less grid of text cells decoded from one
// uploaded spreadsheet. Every row has the same length once built with
// NewRawGrid.
type RawGrid struct {
	Source string     `json:"source"`
	Rows   [][]string `json:"rows"`
}

// NewRawGrid copies rows into a rectangular grid, right-padding short rows
// with empty strings up to the widest observed row.
func NewRawGrid(source string, rows [][]string) RawGrid {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	padded := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, width)
		copy(cells, row)
		padded[i] = cells
	}

	return RawGrid{Source: source, Rows: padded}
}

// Width returns the length of the widest row.
func (g RawGrid) Width() int {
	width := 0
	for _, row := range g.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Len returns the number of rows in the grid.
func (g RawGrid) Len() int {
	return len(g.Rows)
}

// Cell returns the text at (row, col) or "" when out of range.
func (g RawGrid) Cell(row, col int) string {
	if row < 0 || row >= len(g.Rows) || col < 0 || col >= len(g.Rows[row]) {
		return ""
	}
	return g.Rows[row][col]
}

// LabeledTable is a grid re-based on a detected (or synthesized) header row.
// Column names are unique; Rows holds the data rows below the header in
// their original order.
type LabeledTable struct {
	Source  string     `json:"source"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	// HeaderIndex is the grid row consumed as the header, or -1 when the
	// default column names were used and the whole grid is data.
	HeaderIndex int `json:"header_index"`
}

// HeaderFound reports whether a header row was located in the grid.
func (t LabeledTable) HeaderFound() bool {
	return t.HeaderIndex >= 0
}

// Index returns the position of the named column or -1.
func (t LabeledTable) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell of row r at column c, or "" when c is negative.
func (t LabeledTable) Value(r, c int) string {
	if c < 0 || r < 0 || r >= len(t.Rows) || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// IsMissing reports whether a cell holds no data: empty text or one of the
// missing-value literals produced by legacy exports.
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(cell, "\u00a0", " "))) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}
