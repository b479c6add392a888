package core

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestSummarize(t *testing.T) {
	s := Series{Country: "USA", Points: []Point{
		{2000, 100},
		{2001, math.NaN()},
		{2002, 121},
		{2003, 110},
	}}

	got := Summarize(s)

	if got.Country != "USA" || got.Points != 3 {
		t.Errorf("Country/Points = %s/%d, want USA/3", got.Country, got.Points)
	}
	if got.From != 2000 || got.To != 2003 {
		t.Errorf("From/To = %d/%d, want 2000/2003", got.From, got.To)
	}

	checks := []struct {
		name string
		got  Number
		want float64
	}{
		{"First", got.First, 100},
		{"Last", got.Last, 110},
		{"Min", got.Min, 100},
		{"Max", got.Max, 121},
		{"Mean", got.Mean, 331.0 / 3},
		{"Median", got.Median, 110},
		{"Growth", got.Growth, math.Pow(1.1, 1.0/3) - 1},
	}
	for _, c := range checks {
		if !approx(float64(c.got), c.want) {
			t.Errorf("%s = %v, want %v", c.name, float64(c.got), c.want)
		}
	}
	if !got.Trend.Valid() || got.Trend <= 0 {
		t.Errorf("Trend = %v, want positive slope", float64(got.Trend))
	}
}

func TestSummarize_LinearTrend(t *testing.T) {
	s := Series{Country: "IND", Points: []Point{{2000, 400}, {2001, 450}, {2002, 500}, {2003, 550}}}

	got := Summarize(s)
	if !approx(float64(got.Trend), 50) {
		t.Errorf("Trend = %v, want 50", float64(got.Trend))
	}
}

func TestSummarize_Degenerate(t *testing.T) {
	tests := []struct {
		name       string
		points     []Point
		wantPoints int
		wantMean   bool
		wantGrowth bool
		wantTrend  bool
	}{
		{"no points", nil, 0, false, false, false},
		{"all missing", []Point{{2000, math.NaN()}, {2001, math.NaN()}}, 0, false, false, false},
		{"single point", []Point{{2000, 500}}, 1, true, false, false},
		{"non-positive start", []Point{{2000, 0}, {2001, 10}}, 2, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(Series{Country: "X", Points: tt.points})
			if got.Points != tt.wantPoints {
				t.Errorf("Points = %d, want %d", got.Points, tt.wantPoints)
			}
			if got.Mean.Valid() != tt.wantMean {
				t.Errorf("Mean valid = %v, want %v", got.Mean.Valid(), tt.wantMean)
			}
			if got.Growth.Valid() != tt.wantGrowth {
				t.Errorf("Growth valid = %v, want %v", got.Growth.Valid(), tt.wantGrowth)
			}
			if got.Trend.Valid() != tt.wantTrend {
				t.Errorf("Trend valid = %v, want %v", got.Trend.Valid(), tt.wantTrend)
			}
		})
	}
}

func TestSummarizeAll_PreservesOrder(t *testing.T) {
	in := []Series{{Country: "CHN"}, {Country: "USA"}, {Country: "IND"}}
	out := SummarizeAll(in)
	for i := range in {
		if out[i].Country != in[i].Country {
			t.Errorf("out[%d].Country = %s, want %s", i, out[i].Country, in[i].Country)
		}
	}
}
