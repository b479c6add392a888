package core

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// datasetNamespace seeds the name-based UUIDs used as dataset versions.
var datasetNamespace = uuid.MustParse("6f1c9a62-3b0e-5d8e-9a4b-2f7d1c0e8b55")

// Dataset is the GDP-per-capita table held in memory for the process lifetime.
// It is immutable once built; accessors return copies.
type Dataset struct {
	countries []string
	years     []int
	rows      map[string][]Cell
	version   uuid.UUID
}

// NewDataset validates and assembles a dataset.
// countries and rows are aligned by index; each row holds one cell per year.
// Years must be strictly increasing and countries unique and non-empty.
func NewDataset(countries []string, years []int, rows [][]Cell) (*Dataset, error) {
	if len(countries) == 0 {
		return nil, ErrNoRows
	}
	if len(rows) != len(countries) {
		return nil, fmt.Errorf("%d countries but %d rows", len(countries), len(rows))
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return nil, fmt.Errorf("year columns not increasing: %d follows %d", years[i], years[i-1])
		}
	}

	ds := &Dataset{
		countries: make([]string, len(countries)),
		years:     make([]int, len(years)),
		rows:      make(map[string][]Cell, len(countries)),
	}
	copy(ds.years, years)

	for i, country := range countries {
		if country == "" {
			return nil, fmt.Errorf("row %d has no country", i+1)
		}
		if _, dup := ds.rows[country]; dup {
			return nil, fmt.Errorf("duplicate country %q", country)
		}
		if len(rows[i]) != len(years) {
			return nil, fmt.Errorf("country %q has %d cells, want %d", country, len(rows[i]), len(years))
		}
		row := make([]Cell, len(years))
		copy(row, rows[i])
		ds.countries[i] = country
		ds.rows[country] = row
	}

	ds.version = ds.fingerprint()
	return ds, nil
}

// fingerprint derives a stable UUIDv5 from the table contents.
func (d *Dataset) fingerprint() uuid.UUID {
	var buf bytes.Buffer
	for _, y := range d.years {
		buf.WriteString(strconv.Itoa(y))
		buf.WriteByte(',')
	}
	for _, country := range d.countries {
		buf.WriteByte('\n')
		buf.WriteString(country)
		for _, c := range d.rows[country] {
			buf.WriteByte(',')
			buf.WriteString(c.String())
		}
	}
	return uuid.NewSHA1(datasetNamespace, buf.Bytes())
}

// Countries returns the country identifiers in source order.
func (d *Dataset) Countries() []string {
	out := make([]string, len(d.countries))
	copy(out, d.countries)
	return out
}

// Years returns the year columns in ascending order.
func (d *Dataset) Years() []int {
	out := make([]int, len(d.years))
	copy(out, d.years)
	return out
}

// Len returns the number of countries.
func (d *Dataset) Len() int {
	return len(d.countries)
}

// FirstYear returns the earliest year column, or 0 for a table without years.
func (d *Dataset) FirstYear() int {
	if len(d.years) == 0 {
		return 0
	}
	return d.years[0]
}

// LastYear returns the latest year column, or 0 for a table without years.
func (d *Dataset) LastYear() int {
	if len(d.years) == 0 {
		return 0
	}
	return d.years[len(d.years)-1]
}

// Has reports whether country is present.
func (d *Dataset) Has(country string) bool {
	_, ok := d.rows[country]
	return ok
}

// Row returns a copy of the cells for country aligned with Years.
func (d *Dataset) Row(country string) ([]Cell, bool) {
	row, ok := d.rows[country]
	if !ok {
		return nil, false
	}
	out := make([]Cell, len(row))
	copy(out, row)
	return out, true
}

// Version identifies the table contents. Identical tables share a version.
func (d *Dataset) Version() uuid.UUID {
	return d.version
}

// yearSpan returns the half-open index range of years within [from, to].
func (d *Dataset) yearSpan(from, to int) (int, int) {
	lo := sort.SearchInts(d.years, from)
	hi := sort.SearchInts(d.years, to+1)
	return lo, hi
}

// YearsIn returns the year columns within [from, to].
func (d *Dataset) YearsIn(from, to int) []int {
	lo, hi := d.yearSpan(from, to)
	out := make([]int, hi-lo)
	copy(out, d.years[lo:hi])
	return out
}

// Marks returns slider marks every step years starting at the first year.
func (d *Dataset) Marks(step int) []int {
	if step <= 0 || len(d.years) == 0 {
		return nil
	}
	var marks []int
	for y := d.FirstYear(); y <= d.LastYear(); y += step {
		marks = append(marks, y)
	}
	return marks
}

// Search returns the countries whose name contains q, case-insensitively, in source order.
func (d *Dataset) Search(q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return d.Countries()
	}
	var out []string
	for _, c := range d.countries {
		if strings.Contains(strings.ToLower(c), q) {
			out = append(out, c)
		}
	}
	return out
}
