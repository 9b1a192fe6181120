package converter

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/ratoolkit/internal/types"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrNoSheets = errors.New("workbook has no sheets")

	errNoWorkbookStream = errors.New("no workbook stream in file")
)

// xlsFormulaPlaceholder is what extrame/xls returns for every FORMULA record
// in place of its cached result.
const xlsFormulaPlaceholder = "FormulaCol"

// numFmtKind is how a number format presents a numeric cell.
type numFmtKind int

const (
	fmtNumber numFmtKind = iota
	fmtDate
	fmtElapsed
)

var (
	numFmtLiteral = regexp.MustCompile(`"[^"]*"|\\.|_.|\*.`)
	numFmtElapsed = regexp.MustCompile(`(?i)\[(h+|m+|s+)\]`)
	numFmtBracket = regexp.MustCompile(`\[[^\]]*\]`)
	numFmtDate    = regexp.MustCompile(`[dmyhsDMYHS]`)
)

// ReadTable loads the first sheet of the workbook at filePath. Legacy .xls
// files go through the BIFF reader, everything else through excelize.
func ReadTable(filePath string) (*types.Table, error) {
	var (
		grid [][]types.Cell
		err  error
	)
	if filepath.Ext(filePath) == ".xls" {
		grid, err = readXLS(filePath)
	} else {
		grid, err = readXLSX(filePath)
	}
	if err != nil {
		return nil, err
	}
	return newTable(grid), nil
}

func readXLSX(filePath string) ([][]types.Cell, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheets
	}

	// Raw values keep numbers unformatted; the formatted pass supplies the
	// display text of durations and unparseable dates.
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	formatted, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	formats := make(map[int]numFmtKind)

	grid := make([][]types.Cell, len(raw))
	for i, row := range raw {
		grid[i] = make([]types.Cell, len(row))
		for j, value := range row {
			if value == "" {
				continue
			}
			shown := value
			if i < len(formatted) && j < len(formatted[i]) {
				shown = formatted[i][j]
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheetName, name)
			if err != nil {
				return nil, err
			}
			kind := fmtNumber
			if typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber {
				if kind, err = cellFormat(f, sheetName, name, formats); err != nil {
					return nil, err
				}
			}
			grid[i][j] = xlsxCell(typ, value, shown, kind, date1904)
		}
	}
	return grid, nil
}

// cellFormat resolves the number format of cell, caching by style index.
func cellFormat(f *excelize.File, sheet, cell string, cache map[int]numFmtKind) (numFmtKind, error) {
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return fmtNumber, err
	}
	if kind, ok := cache[idx]; ok {
		return kind, nil
	}
	kind := fmtNumber
	if style, err := f.GetStyle(idx); err == nil {
		kind = styleFormat(style)
	}
	cache[idx] = kind
	return kind, nil
}

func styleFormat(style *excelize.Style) numFmtKind {
	if style.CustomNumFmt != nil {
		return numFmtKindOf(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 22, n == 45, n == 47:
		return fmtDate
	case n >= 27 && n <= 36, n >= 50 && n <= 58:
		// East Asian locale dates
		return fmtDate
	case n == 46:
		return fmtElapsed
	}
	return fmtNumber
}

// numFmtKindOf reads the first section of a custom format code once quoted
// text, escapes and padding are removed. Bracketed [h], [mm], [ss] mark an
// elapsed duration; any other date or time token marks a date.
func numFmtKindOf(code string) numFmtKind {
	section := numFmtLiteral.ReplaceAllString(code, "")
	if i := strings.IndexByte(section, ';'); i >= 0 {
		section = section[:i]
	}
	if numFmtElapsed.MatchString(section) {
		return fmtElapsed
	}
	if numFmtDate.MatchString(numFmtBracket.ReplaceAllString(section, "")) {
		return fmtDate
	}
	return fmtNumber
}

// xlsxCell types a cell from its stored type and number format. String
// cells stay text even when they look numeric; numbers under a date format
// become dates, and durations keep their display text.
func xlsxCell(typ excelize.CellType, raw, formatted string, kind numFmtKind, date1904 bool) types.Cell {
	if raw == "" {
		return types.Cell{Kind: types.CellEmpty}
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return types.Cell{Kind: types.CellText, Text: raw}
	case excelize.CellTypeBool:
		return types.Cell{Kind: types.CellBool, Bool: raw == "1" || strings.EqualFold(raw, "true")}
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return types.Cell{Kind: types.CellDate, Time: t}
		}
		return types.Cell{Kind: types.CellText, Text: formatted}
	}

	v, ok := parseNumber(raw)
	if !ok {
		return types.Cell{Kind: types.CellText, Text: raw}
	}
	switch kind {
	case fmtDate:
		if c, ok := excelTime(v, date1904); ok {
			return c
		}
	case fmtElapsed:
		return types.Cell{Kind: types.CellText, Text: formatted}
	}
	return types.Cell{Kind: types.CellNumber, Number: v}
}

// excelTime converts a date serial. Serials below one day carry no date and
// become a time of day.
func excelTime(v float64, date1904 bool) (types.Cell, bool) {
	if v >= 0 && v < 1 {
		secs := time.Duration(math.Round(v*86400)) * time.Second
		return types.Cell{Kind: types.CellTime, Time: time.Time{}.Add(secs)}, true
	}
	t, err := excelize.ExcelDateToTime(v, date1904)
	if err != nil {
		return types.Cell{}, false
	}
	return types.Cell{Kind: types.CellDate, Time: t}, true
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func readXLS(filePath string) (grid [][]types.Cell, err error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// The BIFF decoder indexes record data without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("decode %s: %v", filepath.Base(filePath), r)
		}
	}()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errNoWorkbookStream
	}
	if wb.NumSheets() == 0 {
		return nil, ErrNoSheets
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheets
	}

	rows := make([]*xls.Row, int(sheet.MaxRow)+1)
	width := 0
	for r := range rows {
		rows[r] = sheetRow(sheet, r)
		if rows[r] != nil && rows[r].LastCol() > width {
			width = rows[r].LastCol()
		}
	}

	grid = make([][]types.Cell, len(rows))
	for r, row := range rows {
		if row == nil {
			continue
		}
		cells := make([]types.Cell, 0, width+1)
		for c := 0; c <= width; c++ {
			cells = append(cells, xlsCell(row.Col(c)))
		}
		grid[r] = trimRow(cells)
	}

	for len(grid) > 0 && len(grid[len(grid)-1]) == 0 {
		grid = grid[:len(grid)-1]
	}
	return grid, nil
}

// sheetRow returns nil for rows the sheet holds no record for.
// WorkSheet.Row dereferences the missing entry.
func sheetRow(sheet *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(r)
}

// xlsCell types a value from the BIFF reader, which hands back strings
// only. NUMBER and RK records come back in canonical FormatFloat form, so
// anything else that merely parses as a number (leading zeros, "1.50",
// "Inf") was a text record and stays text.
func xlsCell(value string) types.Cell {
	if value == "" || value == xlsFormulaPlaceholder {
		return types.Cell{Kind: types.CellEmpty}
	}
	if v, ok := parseNumber(value); ok && strconv.FormatFloat(v, 'f', -1, 64) == value {
		return types.Cell{Kind: types.CellNumber, Number: v}
	}
	return types.Cell{Kind: types.CellText, Text: value}
}

// parseNumber accepts finite decimal values only.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func isNumeric(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

func trimRow(cells []types.Cell) []types.Cell {
	for len(cells) > 0 && cells[len(cells)-1].Kind == types.CellEmpty {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// newTable treats the first non-blank row as column labels. Blank labels
// become "Unnamed: <i>", repeated labels get ".1", ".2" suffixes, and rows
// with no values at all are skipped.
func newTable(grid [][]types.Cell) *types.Table {
	t := &types.Table{}
	for len(grid) > 0 && len(trimRow(grid[0])) == 0 {
		grid = grid[1:]
	}
	if len(grid) == 0 {
		return t
	}

	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	seen := make(map[string]int)
	t.Columns = make([]string, width)
	for i := 0; i < width; i++ {
		label := ""
		if i < len(grid[0]) {
			label = cellLabel(grid[0][i])
		}
		if label == "" {
			label = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[label]; ok {
			seen[label] = n + 1
			label = fmt.Sprintf("%s.%d", label, n+1)
		} else {
			seen[label] = 0
		}
		t.Columns[i] = label
	}

	for _, row := range grid[1:] {
		if len(trimRow(row)) == 0 {
			continue
		}
		cells := make([]types.Cell, width)
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func cellLabel(c types.Cell) string {
	switch c.Kind {
	case types.CellText:
		return c.Text
	case types.CellNumber:
		return formatObjectNumber(c.Number)
	case types.CellBool:
		return formatBool(c.Bool)
	case types.CellDate, types.CellTime:
		return formatObjectTime(c)
	default:
		return ""
	}
}
