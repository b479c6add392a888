package core

// Chart text fixed by the viewer layout.
const (
	AxisYear     = "Year"
	AxisGDP      = "GDP Per Capita ($)"
	DefaultTitle = "GDP Per Capita Over Time"
	HoverClosest = "closest"
	TraceScatter = "scatter"
	ModeLines    = "lines"
)

// Figure is a Plotly figure document: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one line of the chart.
type Trace struct {
	Type string   `json:"type"`
	Mode string   `json:"mode"`
	Name string   `json:"name"`
	X    []int    `json:"x"`
	Y    []Number `json:"y"`
}

// Layout holds the chart title, axis titles and hover behaviour.
type Layout struct {
	Title     Label  `json:"title"`
	XAxis     Axis   `json:"xaxis"`
	YAxis     Axis   `json:"yaxis"`
	HoverMode string `json:"hovermode"`
}

// Axis carries an axis title.
type Axis struct {
	Title Label `json:"title"`
}

// Label is Plotly's {"text": ...} title object.
type Label struct {
	Text string `json:"text"`
}

// BuildFigure turns series into a line chart with the fixed viewer layout.
// An empty title falls back to DefaultTitle.
func BuildFigure(title string, series []Series) Figure {
	if title == "" {
		title = DefaultTitle
	}

	traces := make([]Trace, 0, len(series))
	for _, s := range series {
		y := make([]Number, len(s.Points))
		for i, p := range s.Points {
			y[i] = Number(p.Value)
		}
		traces = append(traces, Trace{
			Type: TraceScatter,
			Mode: ModeLines,
			Name: s.Country,
			X:    s.Years(),
			Y:    y,
		})
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:     Label{Text: title},
			XAxis:     Axis{Title: Label{Text: AxisYear}},
			YAxis:     Axis{Title: Label{Text: AxisGDP}},
			HoverMode: HoverClosest,
		},
	}
}
