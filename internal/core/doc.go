// Package core holds the GDP viewer's domain logic, independent of HTTP or UI.
//
// # Dataset
//
// [Load] reads a row-per-country, column-per-year table (.csv, .tsv or .xlsx)
// into an immutable [Dataset]. Each cell is tagged at load time as numeric or
// text ([Cell]); text cells keep abbreviations such as "12.3k" verbatim.
//
//	ds, err := core.Load("gdp_pcap.csv", core.LoadOptions{})
//
// # Coercion
//
// A [Coercer] turns cells into float64. Numeric cells pass through, text cells
// are parsed after stripping a trailing abbreviation marker ("k" = ×1000 by
// default; "M" and "B" can be enabled).
//
// # Selection
//
// A [Transformer] maps a [Selection] (countries in caller order plus an
// inclusive year range) to one [Series] per country. It is a pure function of
// its inputs, so one Transformer is shared by all requests.
//
//	t := core.NewTransformer(ds, core.NewCoercer(nil))
//	series, err := t.Transform(core.Selection{Countries: []string{"USA", "CHN"}, From: 2000, To: 2005})
//	fig := core.BuildFigure("", series)
//
// # Errors
//
// Failures are typed: [LoadError], [ParseError] and [SelectionError].
// [MapError] converts any error into a coded [UserMessage] for display.
package core
