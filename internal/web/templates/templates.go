// Package templates renders the viewer's HTML as templ components.
//
// The markup lives in embedded html/template files; each exported function
// wraps one named template with templ.FromGoHTML so handlers deal only in
// templ.Component.
package templates

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"math"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/gdpview/internal/core"
)

//go:embed *.html
var files embed.FS

var printer = message.NewPrinter(language.English)

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"money":    money,
	"percent":  percent,
	"selected": func(set map[string]bool, c string) bool { return set[c] },
}).ParseFS(files, "*.html"))

// PageData is everything the single page needs for its first render.
type PageData struct {
	Heading     string
	Description string
	ChartTitle  string

	Countries []string
	Selected  map[string]bool

	FirstYear int
	LastYear  int
	From      int
	To        int
	Marks     []int

	PlotlyURL string
	// State is the JSON document app.js starts from (figure, input IDs).
	State string

	Error     *core.UserMessage
	Summaries []core.Summary
}

// Page renders the whole viewer.
func Page(d PageData) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("page"), d)
}

// ErrorAlert renders the dismissible banner shown when an update fails.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("error_alert"), &core.UserMessage{
		Message: message,
		Action:  action,
		Code:    code,
	})
}

// SummaryTable renders per-country statistics for the current selection.
func SummaryTable(rows []core.Summary) templ.Component {
	return templ.FromGoHTML(tmpl.Lookup("summary_table"), rows)
}

// RenderString renders c to a string, for components returned inside JSON.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// money formats a dollar amount with thousands separators; missing is "–".
func money(n core.Number) string {
	if !n.Valid() {
		return "–"
	}
	return printer.Sprintf("$%d", int64(math.Round(float64(n))))
}

// percent formats a fraction as a signed percentage with two decimals.
func percent(n core.Number) string {
	if !n.Valid() {
		return "–"
	}
	return printer.Sprintf("%+.2f%%", float64(n)*100)
}
