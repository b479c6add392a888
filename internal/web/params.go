package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/gdpview/internal/core"
)

// initialSelection is the page's first selection: the configured default
// countries that exist, and the default years clamped into the dataset.
func (s *Server) initialSelection() core.Selection {
	ds := s.transformer.Dataset()
	view := s.cfg.View

	var countries []string
	for _, c := range view.DefaultCountries {
		if ds.Has(c) {
			countries = append(countries, c)
		}
	}
	if countries == nil {
		countries = []string{}
	}

	from := clamp(view.DefaultFrom, ds.FirstYear(), ds.LastYear())
	to := clamp(view.DefaultTo, ds.FirstYear(), ds.LastYear())
	if from > to {
		from, to = ds.FirstYear(), ds.LastYear()
	}
	return core.Selection{Countries: countries, From: from, To: to}
}

// selectionFromQuery reads a selection from the URL.
//
//	?country=USA&country=CHN&from=2000&to=2010
//	?countries=USA,CHN&from=2000&to=2010
//
// Repeated country= keeps names that contain commas ("Congo, Rep.") intact;
// the page's download links use it. Absent parameters fall back to
// initialSelection. An empty countries= selects nothing.
func (s *Server) selectionFromQuery(r *http.Request) (core.Selection, error) {
	q := r.URL.Query()
	sel := s.initialSelection()

	_, hasList := q["countries"]
	repeated := q["country"]
	if hasList || len(repeated) > 0 {
		sel.Countries = splitCountries(repeated, q.Get("countries"))
	}

	var err error
	if sel.From, err = intParam(q.Get("from"), "from", sel.From); err != nil {
		return core.Selection{}, err
	}
	if sel.To, err = intParam(q.Get("to"), "to", sel.To); err != nil {
		return core.Selection{}, err
	}
	return sel, nil
}

func splitCountries(repeated []string, list string) []string {
	out := []string{}
	for _, c := range repeated {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// intParam parses an integer parameter, returning def when raw is empty.
func intParam(raw, name string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid parameter %q: %q is not a whole number", name, raw)
	}
	return v, nil
}

// sizeParam parses an optional image dimension within [min, max].
func sizeParam(raw, name string, min, max int) (int, error) {
	v, err := intParam(raw, name, 0)
	if err != nil {
		return 0, err
	}
	if v != 0 && (v < min || v > max) {
		return 0, fmt.Errorf("invalid parameter %q: must be between %d and %d", name, min, max)
	}
	return v, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
