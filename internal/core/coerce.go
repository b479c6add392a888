package core

// coerce.go turns raw GDP cells into plain float64 values.
//
// The source table mixes encodings:
//   - numbers typed as such when the column was read
//   - abbreviated strings such as "12.3k" (thousands)
//   - plain numeric strings in columns that also hold abbreviations
//   - the unicode minus sign (U+2212) in place of '-'
//
// Numeric cells pass through unchanged, NaN included.

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation; rejects NaN and Inf spellings.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// DefaultMarkers is the abbreviation table used when none is configured.
var DefaultMarkers = map[string]float64{"k": 1e3}

type marker struct {
	suffix string
	scale  float64
}

// Coercer converts cells to float64 using a fixed table of abbreviation markers.
// It is immutable and safe for concurrent use.
type Coercer struct {
	markers []marker
}

// NewCoercer builds a Coercer for the given suffix → multiplier table.
// An empty table selects DefaultMarkers.
func NewCoercer(markers map[string]float64) *Coercer {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	c := &Coercer{markers: make([]marker, 0, len(markers))}
	for suffix, scale := range markers {
		if suffix == "" {
			continue
		}
		c.markers = append(c.markers, marker{suffix: suffix, scale: scale})
	}
	// Longest suffix first, ties by name.
	sort.Slice(c.markers, func(i, j int) bool {
		if len(c.markers[i].suffix) != len(c.markers[j].suffix) {
			return len(c.markers[i].suffix) > len(c.markers[j].suffix)
		}
		return c.markers[i].suffix < c.markers[j].suffix
	})
	return c
}

var defaultCoercer = NewCoercer(nil)

// ToFloat coerces a cell with the default "k" table.
func ToFloat(c Cell) (float64, error) {
	return defaultCoercer.Float(c)
}

// Float returns the numeric value of c.
// Numeric cells are returned unchanged; text cells go through ParseText.
func (co *Coercer) Float(c Cell) (float64, error) {
	if v, ok := c.Number(); ok {
		return v, nil
	}
	return co.ParseText(c.String())
}

// ParseText parses a raw string such as "1234.5", "12.5k" or "−3.2".
// Returns a *ParseError when the remaining content is not a number.
func (co *Coercer) ParseText(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "−", "-")

	scale := 1.0
	for _, m := range co.markers {
		if strings.HasSuffix(s, m.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, m.suffix))
			scale = m.scale
			break
		}
	}

	if !numericRegex.MatchString(s) {
		return 0, &ParseError{Value: raw}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Value: raw, Err: err}
	}
	return v * scale, nil
}

// Markers returns the configured suffixes, longest first.
func (co *Coercer) Markers() []string {
	out := make([]string, len(co.markers))
	for i, m := range co.markers {
		out[i] = m.suffix
	}
	return out
}
