package types

import "time"

// CellKind describes what a spreadsheet cell held once loaded.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellBool
	CellText
	// CellDate is a calendar date with an optional time of day.
	CellDate
	// CellTime is a time of day with no date.
	CellTime
)

type Cell struct {
	Kind   CellKind
	Number float64
	Bool   bool
	Text   string
	Time   time.Time
}

// Table is the in-memory form of one spreadsheet sheet: a header row of
// column labels followed by data rows in source order.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Value returns the cell in row under the column labelled label.
func (t *Table) Value(row int, label string) (Cell, bool) {
	if row < 0 || row >= len(t.Rows) {
		return Cell{}, false
	}
	for i, c := range t.Columns {
		if c == label {
			if i < len(t.Rows[row]) {
				return t.Rows[row][i], true
			}
			return Cell{}, true
		}
	}
	return Cell{}, false
}

type ConversionRequest struct {
	InputFile  string
	OutputFile string
}

type ConversionResult struct {
	InputFile     string
	OutputFile    string
	Columns       []string
	RowsProcessed int
}
