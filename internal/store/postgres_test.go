package store

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/gdpview/internal/core"
)

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func TestPivot(t *testing.T) {
	obs := []Observation{
		{Country: "CHN", Year: 2001, Value: text("1.05k")},
		{Country: "CHN", Year: 2000, Value: text("959")},
		{Country: "USA", Year: 2000, Value: text("36300")},
		{Country: "USA", Year: 2002, Value: pgtype.Text{}},
	}

	got, err := Pivot(obs, "")
	if err != nil {
		t.Fatalf("Pivot() error = %v", err)
	}

	want := [][]string{
		{"country", "2000", "2001", "2002"},
		{"CHN", "959", "1.05k", ""},
		{"USA", "36300", "", ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Pivot() = %q, want %q", got, want)
	}
}

func TestPivot_Duplicate(t *testing.T) {
	obs := []Observation{
		{Country: "USA", Year: 2000, Value: text("1")},
		{Country: "USA", Year: 2000, Value: text("2")},
	}
	if _, err := Pivot(obs, "country"); err == nil {
		t.Error("Pivot() expected error for duplicate (country, year)")
	}
}

func TestPivot_FeedsLoader(t *testing.T) {
	obs := []Observation{
		{Country: "USA", Year: 2000, Value: text("36.3k")},
		{Country: "USA", Year: 2001, Value: text("36.8k")},
		{Country: "IND", Year: 2000, Value: text("443")},
		{Country: "IND", Year: 2001, Value: text("452")},
	}
	records, err := Pivot(obs, "iso3")
	if err != nil {
		t.Fatalf("Pivot() error = %v", err)
	}

	ds, err := core.LoadRecords("postgres:gdp_pcap", records, core.LoadOptions{CountryColumn: "iso3"})
	if err != nil {
		t.Fatalf("LoadRecords() error = %v", err)
	}
	if got, want := ds.Countries(), []string{"USA", "IND"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Countries() = %v, want %v", got, want)
	}
	if got, want := ds.Years(), []int{2000, 2001}; !reflect.DeepEqual(got, want) {
		t.Errorf("Years() = %v, want %v", got, want)
	}
}

func TestPivot_Empty(t *testing.T) {
	records, err := Pivot(nil, "")
	if err != nil {
		t.Fatalf("Pivot() error = %v", err)
	}
	_, err = core.LoadRecords("postgres:gdp_pcap", records, core.LoadOptions{})
	if err == nil {
		t.Error("LoadRecords() expected error for empty table")
	}
}

func TestSelectSQL(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"gdp_pcap", `SELECT country, year, value::text FROM "gdp_pcap" ORDER BY country, year`},
		{"stats.gdp_pcap", `SELECT country, year, value::text FROM "stats"."gdp_pcap" ORDER BY country, year`},
		{`bad"name`, `SELECT country, year, value::text FROM "bad""name" ORDER BY country, year`},
	}
	for _, tt := range tests {
		if got := selectSQL(tt.table); got != tt.want {
			t.Errorf("selectSQL(%q) = %s, want %s", tt.table, got, tt.want)
		}
	}
}
