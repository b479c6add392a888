package templates

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/gdpview/internal/core"
)

func TestPage(t *testing.T) {
	html, err := RenderString(context.Background(), Page(PageData{
		Heading:     "GDP Per Capita Analysis",
		Description: "Explore <GDP>",
		Countries:   []string{"USA", "CHN"},
		Selected:    map[string]bool{"CHN": true},
		FirstYear:   1800,
		LastYear:    2100,
		From:        2000,
		To:          2010,
		Marks:       []int{1800, 1850},
		PlotlyURL:   "https://cdn.plot.ly/plotly-2.35.2.min.js",
		State:       `{"figure":{"data":[]}}`,
	}))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>GDP Per Capita Analysis</h1>")
	assert.Contains(t, html, "Explore &lt;GDP&gt;")
	assert.Contains(t, html, `<option value="CHN" selected>CHN</option>`)
	assert.Contains(t, html, `<option value="USA">USA</option>`)
	assert.Contains(t, html, `id="year-from" min="1800" max="2100" step="1" value="2000"`)
	assert.Contains(t, html, `data-state="{&#34;figure&#34;:{&#34;data&#34;:[]}}"`)
	assert.Contains(t, html, `<div id="error-banner" role="alert" hidden>`)
}

func TestPage_WithError(t *testing.T) {
	html, err := RenderString(context.Background(), Page(PageData{
		Error: &core.UserMessage{Message: "Bad data", Action: "Fix it", Code: "PARSE001"},
	}))
	require.NoError(t, err)

	assert.Contains(t, html, `<div id="error-banner" role="alert">`)
	assert.Contains(t, html, "Code: PARSE001")
}

func TestErrorAlert_Escapes(t *testing.T) {
	html, err := RenderString(context.Background(), ErrorAlert("<script>", "retry", "ERR000"))
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `data-code="ERR000"`)
}

func TestSummaryTable(t *testing.T) {
	nan := core.Number(math.NaN())
	rows := []core.Summary{
		{Country: "USA", Points: 2, From: 2000, To: 2001, First: 36300, Last: 36800, Min: 36300, Max: 36800, Mean: 36550, Median: 36550, Growth: 0.01377, Trend: 500},
		{Country: "SSD", First: nan, Last: nan, Min: nan, Max: nan, Mean: nan, Median: nan, Growth: nan, Trend: nan},
	}

	html, err := RenderString(context.Background(), SummaryTable(rows))
	require.NoError(t, err)

	assert.Contains(t, html, "<td>USA</td>")
	assert.Contains(t, html, "<td>2000–2001</td>")
	assert.Contains(t, html, "<td>$36,300</td>")
	// html/template escapes the plus sign in text.
	assert.Contains(t, html, "<td>&#43;1.38%</td>")
	assert.Equal(t, 2, strings.Count(html, "<tr>\n      <td>"), "one row per country")
	assert.Contains(t, html, "<td>SSD</td>\n      <td>–</td>")
}

func TestSummaryTable_Empty(t *testing.T) {
	html, err := RenderString(context.Background(), SummaryTable(nil))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(html))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$1,234,568", money(1234567.8))
	assert.Equal(t, "–", money(core.Number(math.Inf(1))))
	assert.Equal(t, "-2.50%", percent(-0.025))
}
