// Package render draws selected GDP series as static images and writes them
// as downloadable tables.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/gdpview/internal/core"
)

// ErrNoData is returned when a selection has no plottable point.
var ErrNoData = errors.New("no data to plot")

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	default:
		return "", fmt.Errorf("invalid parameter: unsupported image format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Options sizes and titles a chart. Zero values take the defaults.
type Options struct {
	Title  string
	Width  int
	Height int
}

const (
	defaultWidth  = 1024
	defaultHeight = 512
)

// palette matches the browser chart's default trace colours.
var palette = []drawing.Color{
	drawing.ColorFromHex("1f77b4"),
	drawing.ColorFromHex("ff7f0e"),
	drawing.ColorFromHex("2ca02c"),
	drawing.ColorFromHex("d62728"),
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	drawing.ColorFromHex("7f7f7f"),
	drawing.ColorFromHex("bcbd22"),
	drawing.ColorFromHex("17becf"),
}

var printer = message.NewPrinter(language.English)

// Chart renders series as a line chart with the viewer's axis titles.
// Missing points are skipped, so lines join across gaps.
// Returns ErrNoData if no series has a finite point.
func Chart(w io.Writer, format Format, opts Options, series []core.Series) error {
	if opts.Title == "" {
		opts.Title = core.DefaultTitle
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}

	var (
		plotted                []chart.Series
		xMin, xMax, yMin, yMax = math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	)
	for i, s := range series {
		var xs, ys []float64
		for _, p := range s.Points {
			if !core.Number(p.Value).Valid() {
				continue
			}
			x := float64(p.Year)
			xs = append(xs, x)
			ys = append(ys, p.Value)
			xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
			yMin, yMax = math.Min(yMin, p.Value), math.Max(yMax, p.Value)
		}
		if len(xs) == 0 {
			continue
		}

		col := palette[i%len(palette)]
		style := chart.Style{StrokeColor: col, StrokeWidth: 2}
		if len(xs) == 1 {
			style.DotColor = col
			style.DotWidth = 4
		}
		plotted = append(plotted, chart.ContinuousSeries{
			Name:    s.Country,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}
	if len(plotted) == 0 {
		return ErrNoData
	}

	xAxis := chart.XAxis{Name: core.AxisYear, ValueFormatter: yearFormatter}
	if xMin == xMax {
		xAxis.Range = &chart.ContinuousRange{Min: xMin - 1, Max: xMax + 1}
	}
	yAxis := chart.YAxis{Name: core.AxisGDP, ValueFormatter: dollarFormatter}
	if yMin == yMax {
		pad := math.Max(1, math.Abs(yMin)*0.1)
		yAxis.Range = &chart.ContinuousRange{Min: yMin - pad, Max: yMax + pad}
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     plotted,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.PNG
	if format == SVG {
		provider = chart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(math.Round(f)))
	}
	return ""
}

func dollarFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return printer.Sprintf("%d", int64(math.Round(f)))
	}
	return ""
}
