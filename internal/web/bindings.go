package web

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/gdpview/internal/core"
	"github.com/JonMunkholm/gdpview/internal/reactive"
	"github.com/JonMunkholm/gdpview/internal/web/templates"
)

// Component IDs shared by the page markup, app.js and the dispatcher.
const (
	InputCountries = "country-selector"
	InputYears     = "year-slider"
	OutputGraph    = "gdp-graph"
	OutputSummary  = "gdp-summary"
)

// registerCallbacks binds the page's two controls to its two outputs.
// Both outputs read both inputs, so any change redraws the chart and
// refreshes the summary table.
func (s *Server) registerCallbacks() {
	inputs := []string{InputCountries, InputYears}

	s.dispatcher.MustRegister(reactive.Callback{
		Output:  OutputGraph,
		Inputs:  inputs,
		Handler: s.updateGraph,
	})
	s.dispatcher.MustRegister(reactive.Callback{
		Output:  OutputSummary,
		Inputs:  inputs,
		Handler: s.updateSummary,
	})
}

// updateGraph recomputes the figure from the current controls.
func (s *Server) updateGraph(ctx context.Context, state reactive.State) (any, error) {
	sel, err := selectionFromState(state)
	if err != nil {
		return nil, err
	}
	series, err := s.transformer.Transform(sel)
	if err != nil {
		return nil, err
	}
	return core.BuildFigure(s.cfg.View.ChartTitle, series), nil
}

// updateSummary renders the statistics table fragment for the current controls.
func (s *Server) updateSummary(ctx context.Context, state reactive.State) (any, error) {
	sel, err := selectionFromState(state)
	if err != nil {
		return nil, err
	}
	series, err := s.transformer.Transform(sel)
	if err != nil {
		return nil, err
	}
	html, err := templates.RenderString(ctx, templates.SummaryTable(core.SummarizeAll(series)))
	if err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	return html, nil
}

// selectionFromState decodes the dropdown value (a list of countries, or
// null when cleared) and the slider value ([from, to]).
func selectionFromState(state reactive.State) (core.Selection, error) {
	var countries []string
	if err := state.Decode(InputCountries, &countries); err != nil {
		return core.Selection{}, err
	}
	if countries == nil {
		countries = []string{}
	}

	var years []int
	if err := state.Decode(InputYears, &years); err != nil {
		return core.Selection{}, err
	}
	if len(years) != 2 {
		return core.Selection{}, fmt.Errorf("invalid parameter %q: want [from, to], got %d values", InputYears, len(years))
	}

	return core.Selection{Countries: countries, From: years[0], To: years[1]}, nil
}
