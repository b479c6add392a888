package core

import (
	"math"
	"strconv"
)

// CellKind tags the representation a cell had in the source table.
type CellKind uint8

const (
	// KindNumeric cells were typed as numbers when the table was read.
	KindNumeric CellKind = iota
	// KindText cells kept their raw text, e.g. "12.3k".
	KindText
)

func (k CellKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is one raw value of the GDP table: either a number or the original text.
// The kind is decided once at load time.
type Cell struct {
	kind CellKind
	num  float64
	text string
}

// Numeric returns a numeric cell.
func Numeric(v float64) Cell {
	return Cell{kind: KindNumeric, num: v}
}

// Text returns a text cell holding s verbatim.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Missing returns the cell used for empty source values. It plots as a gap.
func Missing() Cell {
	return Numeric(math.NaN())
}

// Kind reports whether the cell is numeric or text.
func (c Cell) Kind() CellKind {
	return c.kind
}

// Number returns the numeric value and true for numeric cells.
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == KindNumeric
}

// IsMissing reports whether the cell is the empty/NaN placeholder.
func (c Cell) IsMissing() bool {
	return c.kind == KindNumeric && math.IsNaN(c.num)
}

// String returns the cell as it would be written back to a table.
// Missing cells render as the empty string.
func (c Cell) String() string {
	if c.kind == KindText {
		return c.text
	}
	if math.IsNaN(c.num) {
		return ""
	}
	return strconv.FormatFloat(c.num, 'f', -1, 64)
}
