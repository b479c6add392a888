package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/gdpview/internal/core"
)

// DefaultSheet names the worksheet of an exported workbook.
const DefaultSheet = "GDP"

// table lays series out wide: one row per country, one column per year.
// Cells without a value are NaN.
func table(years []int, series []core.Series) [][]float64 {
	col := make(map[int]int, len(years))
	for i, y := range years {
		col[y] = i
	}

	rows := make([][]float64, len(series))
	for r, s := range series {
		row := make([]float64, len(years))
		for i := range row {
			row[i] = math.NaN()
		}
		for _, p := range s.Points {
			if c, ok := col[p.Year]; ok {
				row[c] = p.Value
			}
		}
		rows[r] = row
	}
	return rows
}

// WriteCSV writes the selection in the dataset's own layout: a "country"
// column followed by one column per year. Missing values are empty.
func WriteCSV(w io.Writer, years []int, series []core.Series) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(years)+1)
	header = append(header, core.DefaultCountryColumn)
	for _, y := range years {
		header = append(header, strconv.Itoa(y))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, row := range table(years, series) {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, series[i].Country)
		for _, v := range row {
			rec = append(rec, formatValue(v))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %s: %w", series[i].Country, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same layout as WriteCSV to a single-sheet workbook.
// Missing values are left as blank cells.
func WriteXLSX(w io.Writer, sheet string, years []int, series []core.Series) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	f.SetCellValue(sheet, "A1", core.DefaultCountryColumn)
	f.SetColWidth(sheet, "A", "A", 24)
	for i, y := range years {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		f.SetCellValue(sheet, cell, y)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(years)+1, 1)
	f.SetCellStyle(sheet, "A1", last, bold)

	for r, row := range table(years, series) {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		f.SetCellValue(sheet, cell, series[r].Country)
		for c, v := range row {
			if !core.Number(v).Valid() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatValue(v float64) string {
	if !core.Number(v).Valid() {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
