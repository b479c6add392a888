package core

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestBuildFigure(t *testing.T) {
	series := []Series{
		{Country: "USA", Points: []Point{{2000, 36300}, {2001, 36800}}},
		{Country: "CHN", Points: []Point{{2000, 959}, {2001, math.NaN()}}},
	}

	fig := BuildFigure("", series)

	if fig.Layout.Title.Text != DefaultTitle {
		t.Errorf("title = %q, want %q", fig.Layout.Title.Text, DefaultTitle)
	}
	if fig.Layout.XAxis.Title.Text != "Year" || fig.Layout.YAxis.Title.Text != "GDP Per Capita ($)" {
		t.Errorf("axes = %q / %q", fig.Layout.XAxis.Title.Text, fig.Layout.YAxis.Title.Text)
	}
	if fig.Layout.HoverMode != "closest" {
		t.Errorf("hovermode = %q, want closest", fig.Layout.HoverMode)
	}
	if len(fig.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(fig.Data))
	}
	for i, tr := range fig.Data {
		if tr.Name != series[i].Country {
			t.Errorf("Data[%d].Name = %q, want %q", i, tr.Name, series[i].Country)
		}
		if tr.Type != "scatter" || tr.Mode != "lines" {
			t.Errorf("Data[%d] = %s/%s, want scatter/lines", i, tr.Type, tr.Mode)
		}
		if len(tr.X) != len(tr.Y) {
			t.Errorf("Data[%d]: len(X) = %d, len(Y) = %d", i, len(tr.X), len(tr.Y))
		}
	}
}

func TestBuildFigure_JSON(t *testing.T) {
	fig := BuildFigure("GDP", []Series{
		{Country: "CHN", Points: []Point{{2000, 959}, {2001, math.NaN()}}},
	})

	data, err := json.Marshal(fig)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	got := string(data)

	for _, want := range []string{
		`"data":[{"type":"scatter","mode":"lines","name":"CHN","x":[2000,2001],"y":[959,null]}]`,
		`"title":{"text":"GDP"}`,
		`"xaxis":{"title":{"text":"Year"}}`,
		`"hovermode":"closest"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("json missing %s\ngot: %s", want, got)
		}
	}
}

func TestBuildFigure_Empty(t *testing.T) {
	data, err := json.Marshal(BuildFigure("", nil))
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.HasPrefix(string(data), `{"data":[],`) {
		t.Errorf("empty figure = %s, want data:[]", data)
	}
}
