package core

// loader.go reads the row-per-country, column-per-year table.
//
// Every source is first reduced to string records (header row first):
//   - .csv/.tsv/.txt via encoding/csv with the configured delimiter
//   - .xlsx via excelize, raw cell values of one worksheet
//   - other sources (e.g. Postgres) call LoadRecords directly
//
// The records then go through a gota DataFrame so each year column gets a
// detected type. Cells of numeric columns become Numeric, cells of string
// columns (e.g. a column mixing "950" and "1.2k") keep their text.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// DefaultCountryColumn is the header of the identifier column.
const DefaultCountryColumn = "country"

// missingValues are source spellings treated as empty cells.
// "NA" is deliberately absent: it is Namibia's ISO code.
var missingValues = []string{"", "NaN", "nan", "<nil>"}

// LoadOptions controls how a table is read.
type LoadOptions struct {
	CountryColumn string // default "country"
	Sheet         string // .xlsx worksheet; default first sheet
	Delimiter     rune   // delimited files; default ','
}

func (o LoadOptions) withDefaults() LoadOptions {
	if strings.TrimSpace(o.CountryColumn) == "" {
		o.CountryColumn = DefaultCountryColumn
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	return o
}

// Load reads the dataset at path. The file type is chosen by extension:
// .xlsx is read as a workbook, anything else as a delimited text file.
// All failures are returned as *LoadError.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	var records [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readWorkbook(raw, opts.Sheet)
	case ".tsv":
		if opts.Delimiter == ',' {
			opts.Delimiter = '\t'
		}
		records, err = readDelimited(raw, opts.Delimiter)
	default:
		records, err = readDelimited(raw, opts.Delimiter)
	}
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	return LoadRecords(path, records, opts)
}

// LoadRecords builds a dataset from string records whose first row is the header.
// source names the origin in error messages.
func LoadRecords(source string, records [][]string, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()

	ds, err := fromRecords(records, opts.CountryColumn)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return ds, nil
}

func fromRecords(records [][]string, countryColumn string) (*Dataset, error) {
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = CleanCell(h)
	}

	countryIdx := -1
	for i, h := range header {
		if strings.EqualFold(h, countryColumn) {
			countryIdx = i
			break
		}
	}
	if countryIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrMissingCountryColumn, countryColumn)
	}

	// Rows may be ragged (trailing empty cells dropped by spreadsheets); pad them.
	normalized := make([][]string, 0, len(records))
	normalized = append(normalized, header)
	for i, rec := range records[1:] {
		if isBlankRecord(rec) {
			continue
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), len(header))
		}
		row := make([]string, len(header))
		copy(row, rec)
		normalized = append(normalized, row)
	}
	if len(normalized) < 2 {
		return nil, ErrNoRows
	}

	types := map[string]series.Type{header[countryIdx]: series.String}
	df := loadFrame(normalized, types)
	if df.Err != nil {
		return nil, fmt.Errorf("parse table: %w", df.Err)
	}

	// gota prefers Bool over Int for a column mixing numbers with true/false,
	// which would hide the numbers. Read such columns as text instead so the
	// odd cells fail coercion on their own.
	var reload bool
	for _, col := range df.Names() {
		if df.Col(col).Type() == series.Bool {
			types[col] = series.String
			reload = true
		}
	}
	if reload {
		if df = loadFrame(normalized, types); df.Err != nil {
			return nil, fmt.Errorf("parse table: %w", df.Err)
		}
	}

	return fromDataFrame(df, countryIdx)
}

func loadFrame(records [][]string, types map[string]series.Type) dataframe.DataFrame {
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingValues),
		dataframe.WithTypes(types),
	)
}

func fromDataFrame(df dataframe.DataFrame, countryIdx int) (*Dataset, error) {
	names := df.Names()

	var (
		years   []int
		yearCol []series.Series
	)
	for i, name := range names {
		if i == countryIdx {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("column %q is not a year", name)
		}
		years = append(years, year)
		yearCol = append(yearCol, df.Col(name))
	}
	if len(years) == 0 {
		return nil, ErrNoYears
	}

	countryCol := df.Col(names[countryIdx])
	nrow := df.Nrow()
	countries := make([]string, nrow)
	rows := make([][]Cell, nrow)

	for r := 0; r < nrow; r++ {
		e := countryCol.Elem(r)
		if !e.IsNA() {
			countries[r] = CleanCell(e.String())
		}
		cells := make([]Cell, len(yearCol))
		for c, col := range yearCol {
			cells[c] = cellFromElement(col, r)
		}
		rows[r] = cells
	}

	return NewDataset(countries, years, rows)
}

// cellFromElement tags a DataFrame element by its column type.
func cellFromElement(col series.Series, i int) Cell {
	e := col.Elem(i)
	if e.IsNA() {
		return Missing()
	}
	switch col.Type() {
	case series.Int, series.Float:
		return Numeric(e.Float())
	default:
		s := strings.TrimSpace(e.String())
		if s == "" {
			return Missing()
		}
		return Text(s)
	}
}

// readDelimited parses a delimited text file after stripping a UTF-8 BOM
// and replacing invalid UTF-8 sequences.
func readDelimited(raw []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(cleanSource(raw)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

// readWorkbook returns the raw cell values of one worksheet.
func readWorkbook(raw []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// cleanSource removes a leading UTF-8 BOM (added by Windows tools) and
// replaces invalid UTF-8 with '?'.
func cleanSource(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	return bytes.ToValidUTF8(raw, []byte("?"))
}

// CleanCell removes common spreadsheet artifacts from a header or identifier:
// surrounding whitespace, an Excel formula prefix (="...") and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
