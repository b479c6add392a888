package core

import (
	"encoding/json"
	"errors"
	"math"
)

// Selection is the user-chosen set of countries and inclusive year range.
type Selection struct {
	Countries []string `json:"countries"`
	From      int      `json:"from"`
	To        int      `json:"to"`
}

// Point is one plotted (year, value) pair. Missing values are NaN.
type Point struct {
	Year  int
	Value float64
}

// MarshalJSON writes NaN and infinite values as null.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year  int    `json:"year"`
		Value Number `json:"value"`
	}{p.Year, Number(p.Value)})
}

// Series is the plotted sequence for one country, ascending by year.
type Series struct {
	Country string  `json:"country"`
	Points  []Point `json:"points"`
}

// Years returns the x values of the series.
func (s Series) Years() []int {
	out := make([]int, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Year
	}
	return out
}

// Values returns the y values of the series.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Number is a float64 that encodes NaN and ±Inf as JSON null.
type Number float64

// Valid reports whether n is a finite number.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// Transformer maps selections to plottable series over one dataset.
// It holds no mutable state and is safe for concurrent use.
type Transformer struct {
	ds      *Dataset
	coercer *Coercer
}

// NewTransformer binds a dataset and a coercer. A nil coercer uses DefaultMarkers.
func NewTransformer(ds *Dataset, coercer *Coercer) *Transformer {
	if coercer == nil {
		coercer = defaultCoercer
	}
	return &Transformer{ds: ds, coercer: coercer}
}

// Dataset returns the dataset the transformer reads from.
func (t *Transformer) Dataset() *Dataset {
	return t.ds
}

// Validate checks sel against the dataset without coercing any cell.
func (t *Transformer) Validate(sel Selection) error {
	if sel.From > sel.To {
		return &SelectionError{From: sel.From, To: sel.To, Err: ErrInvalidRange}
	}
	if sel.From < t.ds.FirstYear() || sel.To > t.ds.LastYear() {
		return &SelectionError{From: sel.From, To: sel.To, Err: ErrRangeOutOfBounds}
	}
	for _, country := range sel.Countries {
		if !t.ds.Has(country) {
			return &SelectionError{Country: country, From: sel.From, To: sel.To, Err: ErrUnknownCountry}
		}
	}
	return nil
}

// Transform returns one series per selected country, in the caller's order.
// Repeated countries are emitted once, at their first position. The years of
// each series are the dataset years within [sel.From, sel.To].
//
// Fails with *SelectionError for unknown countries or a bad range, and with
// *ParseError if any selected cell cannot be coerced; no partial result is returned.
func (t *Transformer) Transform(sel Selection) ([]Series, error) {
	if err := t.Validate(sel); err != nil {
		return nil, err
	}

	lo, hi := t.ds.yearSpan(sel.From, sel.To)
	years := t.ds.years[lo:hi]

	out := make([]Series, 0, len(sel.Countries))
	seen := make(map[string]bool, len(sel.Countries))
	for _, country := range sel.Countries {
		if seen[country] {
			continue
		}
		seen[country] = true

		cells := t.ds.rows[country][lo:hi]
		points := make([]Point, len(cells))
		for i, cell := range cells {
			v, err := t.coercer.Float(cell)
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					pe.Country = country
					pe.Year = years[i]
				}
				return nil, err
			}
			points[i] = Point{Year: years[i], Value: v}
		}
		out = append(out, Series{Country: country, Points: points})
	}
	return out, nil
}

// CellIssue locates a cell the coercer rejects.
type CellIssue struct {
	Country string
	Year    int
	Raw     string
}

// Check coerces every cell of the dataset and returns the ones that fail.
// Used at startup to surface bad data before a request trips over it.
func (t *Transformer) Check() []CellIssue {
	var issues []CellIssue
	for _, country := range t.ds.countries {
		for i, cell := range t.ds.rows[country] {
			if _, err := t.coercer.Float(cell); err != nil {
				issues = append(issues, CellIssue{Country: country, Year: t.ds.years[i], Raw: cell.String()})
			}
		}
	}
	return issues
}
