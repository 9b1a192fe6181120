package converter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nconklindev/ratoolkit/internal/types"
)

// FloatDigits is the precision used for float columns before trailing zeros
// are trimmed.
const FloatDigits = 6

const (
	naRep  = "NaN"
	natRep = "NaT"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	clockLayout    = "15:04:05"
)

type columnKind int

const (
	kindFloat columnKind = iota
	kindInt
	kindBool
	kindDatetime
	kindObject
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// RenderHTML renders t as a dataframe-style HTML table: a header row of
// column labels, then one row per data row led by its 0-based index.
func RenderHTML(t *types.Table) string {
	var b strings.Builder

	b.WriteString("<table border=\"1\" class=\"dataframe\">\n")
	b.WriteString("  <thead>\n")
	b.WriteString("    <tr style=\"text-align: right;\">\n")
	b.WriteString("      <th></th>\n")
	for _, label := range t.Columns {
		fmt.Fprintf(&b, "      <th>%s</th>\n", htmlEscaper.Replace(label))
	}
	b.WriteString("    </tr>\n")
	b.WriteString("  </thead>\n")
	b.WriteString("  <tbody>\n")

	columns := make([][]string, len(t.Columns))
	for i := range t.Columns {
		columns[i] = formatColumn(column(t, i))
	}

	for r := range t.Rows {
		b.WriteString("    <tr>\n")
		fmt.Fprintf(&b, "      <th>%d</th>\n", r)
		for c := range t.Columns {
			fmt.Fprintf(&b, "      <td>%s</td>\n", htmlEscaper.Replace(columns[c][r]))
		}
		b.WriteString("    </tr>\n")
	}

	b.WriteString("  </tbody>\n")
	b.WriteString("</table>")
	return b.String()
}

func column(t *types.Table, i int) []types.Cell {
	cells := make([]types.Cell, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			cells[r] = row[i]
		}
	}
	return cells
}

func classify(cells []types.Cell) columnKind {
	var empty, numbers, integral, bools, dates int
	for _, c := range cells {
		switch c.Kind {
		case types.CellEmpty:
			empty++
		case types.CellNumber:
			numbers++
			if c.Number == math.Trunc(c.Number) && !math.IsInf(c.Number, 0) {
				integral++
			}
		case types.CellBool:
			bools++
		case types.CellDate:
			dates++
		}
	}

	switch {
	case empty == len(cells):
		return kindFloat
	case numbers+empty == len(cells):
		if empty == 0 && integral == numbers {
			return kindInt
		}
		return kindFloat
	case bools == len(cells):
		return kindBool
	case dates+empty == len(cells):
		return kindDatetime
	default:
		return kindObject
	}
}

func formatColumn(cells []types.Cell) []string {
	out := make([]string, len(cells))

	switch classify(cells) {
	case kindFloat:
		return formatFloats(cells)
	case kindInt:
		for i, c := range cells {
			out[i] = formatInt(c.Number)
		}
	case kindBool:
		for i, c := range cells {
			out[i] = formatBool(c.Bool)
		}
	case kindDatetime:
		return formatDatetimes(cells)
	default:
		for i, c := range cells {
			switch c.Kind {
			case types.CellEmpty:
				out[i] = naRep
			case types.CellNumber:
				out[i] = formatObjectNumber(c.Number)
			case types.CellBool:
				out[i] = formatBool(c.Bool)
			case types.CellDate, types.CellTime:
				out[i] = formatObjectTime(c)
			default:
				out[i] = c.Text
			}
		}
	}
	return out
}

// formatDatetimes drops the time of day when every value in the column
// falls on midnight.
func formatDatetimes(cells []types.Cell) []string {
	layout := dateLayout
	for _, c := range cells {
		if c.Kind != types.CellDate {
			continue
		}
		if h, m, sec := c.Time.Clock(); h != 0 || m != 0 || sec != 0 {
			layout = dateTimeLayout
			break
		}
	}

	out := make([]string, len(cells))
	for i, c := range cells {
		if c.Kind != types.CellDate {
			out[i] = natRep
			continue
		}
		out[i] = c.Time.Format(layout)
	}
	return out
}

func formatObjectTime(c types.Cell) string {
	if c.Kind == types.CellTime {
		return c.Time.Format(clockLayout)
	}
	return c.Time.Format(dateTimeLayout)
}

// formatFloats formats a numeric column with a shared number of decimals:
// fixed notation with trailing zeros trimmed while every value still ends in
// zero, or scientific notation when some non-zero value would print as 0.
func formatFloats(cells []types.Cell) []string {
	out := make([]string, len(cells))

	hasSmall, hasLarge := false, false
	for _, c := range cells {
		if c.Kind != types.CellNumber {
			continue
		}
		abs := math.Abs(c.Number)
		if abs > 0 && abs < math.Pow10(-FloatDigits) {
			hasSmall = true
		}
		if abs > 1e6 {
			hasLarge = true
		}
	}

	format := func(verb byte) {
		for i, c := range cells {
			if c.Kind != types.CellNumber {
				out[i] = naRep
				continue
			}
			out[i] = strconv.FormatFloat(c.Number, verb, FloatDigits, 64)
		}
	}

	format('f')
	trimZeros(out)
	maxLen := 0
	for _, s := range out {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	if hasSmall || (maxLen > FloatDigits+6 && hasLarge) {
		format('e')
	}
	return out
}

// trimZeros strips one trailing zero at a time from every fixed-notation
// value, for as long as all of them end in zero, then restores a single zero
// after a bare decimal point.
func trimZeros(values []string) {
	isDecimal := func(s string) bool {
		return s != naRep && strings.Contains(s, ".") && !strings.ContainsAny(s, "eE")
	}
	shouldTrim := func() bool {
		n := 0
		for _, v := range values {
			if !isDecimal(v) {
				continue
			}
			n++
			if !strings.HasSuffix(v, "0") {
				return false
			}
		}
		return n > 0
	}

	for shouldTrim() {
		for i, v := range values {
			if isDecimal(v) {
				values[i] = v[:len(v)-1]
			}
		}
	}
	for i, v := range values {
		if isDecimal(v) && strings.HasSuffix(v, ".") {
			values[i] = v + "0"
		}
	}
}

func formatInt(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}

// formatObjectNumber formats a number sitting in a mixed column on its own:
// whole numbers without decimals, others with trailing zeros trimmed.
func formatObjectNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return formatInt(v)
	}
	s := strings.TrimRight(strconv.FormatFloat(v, 'f', FloatDigits, 64), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
