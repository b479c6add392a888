package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/JonMunkholm/gdpview/internal/core"
	"github.com/JonMunkholm/gdpview/internal/logging"
	"github.com/JonMunkholm/gdpview/internal/reactive"
	"github.com/JonMunkholm/gdpview/internal/render"
	"github.com/JonMunkholm/gdpview/internal/web/templates"
)

const (
	maxUpdateBody = 64 << 10
	plotlyBundle  = "/plotly-2.35.2.min.js"
	xlsxType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// pageState is the document app.js boots from.
type pageState struct {
	IDs    stateIDs     `json:"ids"`
	Figure *core.Figure `json:"figure"`
}

type stateIDs struct {
	Graph     string `json:"graph"`
	Summary   string `json:"summary"`
	Countries string `json:"countries"`
	Years     string `json:"years"`
}

// updateRequest is the body app.js posts when a control changes.
type updateRequest struct {
	Changed string         `json:"changed"`
	Inputs  reactive.State `json:"inputs"`
}

// handlePage renders the single page with the initial selection drawn.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ds := s.transformer.Dataset()
	view := s.cfg.View
	sel := s.initialSelection()

	data := templates.PageData{
		Heading:     view.Heading,
		Description: view.Description,
		ChartTitle:  view.ChartTitle,
		Countries:   ds.Countries(),
		Selected:    make(map[string]bool, len(sel.Countries)),
		FirstYear:   ds.FirstYear(),
		LastYear:    ds.LastYear(),
		From:        sel.From,
		To:          sel.To,
		Marks:       ds.Marks(view.MarkStep),
		PlotlyURL:   strings.TrimRight(s.cfg.Security.ScriptCDN, "/") + plotlyBundle,
	}
	for _, c := range sel.Countries {
		data.Selected[c] = true
	}

	state := pageState{IDs: stateIDs{
		Graph:     OutputGraph,
		Summary:   OutputSummary,
		Countries: InputCountries,
		Years:     InputYears,
	}}

	series, err := s.transformer.Transform(sel)
	if err != nil {
		// The page still renders; the banner explains why the chart is empty.
		selectionLogger(r, sel).Error("initial selection failed", "error", err)
		msg := core.MapError(err)
		data.Error = &msg
		empty := core.BuildFigure(view.ChartTitle, nil)
		state.Figure = &empty
	} else {
		fig := core.BuildFigure(view.ChartTitle, series)
		state.Figure = &fig
		data.Summaries = core.SummarizeAll(series)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("encode page state: %w", err))
		return
	}
	data.State = string(raw)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}

// handleHealth reports liveness and which dataset is being served.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := s.transformer.Dataset()
	writeJSON(w, map[string]any{
		"status":    "ok",
		"countries": ds.Len(),
		"version":   ds.Version().String(),
	})
}

// handleDataset returns the metadata the controls are built from.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds := s.transformer.Dataset()
	writeJSON(w, map[string]any{
		"countries": ds.Countries(),
		"count":     ds.Len(),
		"years":     ds.Years(),
		"firstYear": ds.FirstYear(),
		"lastYear":  ds.LastYear(),
		"marks":     ds.Marks(s.cfg.View.MarkStep),
		"defaults":  s.initialSelection(),
		"version":   ds.Version().String(),
	})
}

// handleCountries filters the country list by ?q=.
func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	matches := s.transformer.Dataset().Search(r.URL.Query().Get("q"))
	writeJSON(w, map[string]any{"countries": matches})
}

// handleUpdate runs the callbacks that depend on the changed control and
// returns their outputs keyed by component ID.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBody)

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request: %w", err))
		return
	}

	start := time.Now()
	out, err := s.dispatcher.Dispatch(r.Context(), req.Changed, req.Inputs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("update dispatched",
		"changed", req.Changed,
		"outputs", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, map[string]any{"outputs": out})
}

// handleFigure returns the chart figure for a query selection.
func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	series, ok := s.seriesFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, core.BuildFigure(s.cfg.View.ChartTitle, series))
}

// handleSummary returns per-country statistics for a query selection.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	series, ok := s.seriesFromQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{"summaries": core.SummarizeAll(series)})
}

// handleChart renders the selection as a PNG or SVG image.
//
//	GET /api/chart.png?countries=USA,CHN&from=2000&to=2010&width=800&height=400
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(strings.TrimPrefix(path.Ext(r.URL.Path), "."))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	q := r.URL.Query()
	width, err := sizeParam(q.Get("width"), "width", 200, 4096)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	height, err := sizeParam(q.Get("height"), "height", 150, 4096)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	title := q.Get("title")
	if title == "" {
		title = s.cfg.View.ChartTitle
	}

	series, ok := s.seriesFromQuery(w, r)
	if !ok {
		return
	}

	// Render into a buffer so a failure can still produce an error response.
	var buf bytes.Buffer
	opts := render.Options{Title: title, Width: width, Height: height}
	if err := render.Chart(&buf, format, opts, series); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "gdp-per-capita."+string(format)))
	w.Write(buf.Bytes())
}

// handleExport downloads the selection as a wide CSV or Excel table,
// one row per country and one column per year.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(r.URL.Path), "."))

	sel, err := s.selectionFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	series, err := s.transformer.Transform(sel)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	years := s.transformer.Dataset().YearsIn(sel.From, sel.To)

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch ext {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		err = render.WriteCSV(&buf, years, series)
	case "xlsx":
		contentType = xlsxType
		err = render.WriteXLSX(&buf, render.DefaultSheet, years, series)
	default:
		err = fmt.Errorf("invalid parameter: unsupported export format %q", ext)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("gdp-per-capita-%d-%d.%s", sel.From, sel.To, ext)
	selectionLogger(r, sel).Info("export", "format", ext, "bytes", buf.Len())

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(buf.Bytes())
}

// seriesFromQuery parses and transforms the URL selection, writing the
// error response itself when either step fails.
func (s *Server) seriesFromQuery(w http.ResponseWriter, r *http.Request) ([]core.Series, bool) {
	sel, err := s.selectionFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	series, err := s.transformer.Transform(sel)
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return series, true
}
