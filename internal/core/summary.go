package core

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one series over the selected years. Missing points are
// skipped; statistics that cannot be computed are NaN (null in JSON).
type Summary struct {
	Country string `json:"country"`
	Points  int    `json:"points"` // non-missing points
	From    int    `json:"from"`   // first year with a value
	To      int    `json:"to"`     // last year with a value
	First   Number `json:"first"`
	Last    Number `json:"last"`
	Min     Number `json:"min"`
	Max     Number `json:"max"`
	Mean    Number `json:"mean"`
	Median  Number `json:"median"`
	// Growth is the compound annual growth rate between First and Last.
	Growth Number `json:"growth"`
	// Trend is the least-squares slope in dollars per year.
	Trend Number `json:"trend"`
}

// Summarize computes the statistics of one series.
func Summarize(s Series) Summary {
	nan := Number(math.NaN())
	sum := Summary{
		Country: s.Country,
		First:   nan, Last: nan, Min: nan, Max: nan,
		Mean: nan, Median: nan, Growth: nan, Trend: nan,
	}

	var xs, ys []float64
	for _, p := range s.Points {
		if math.IsNaN(p.Value) {
			continue
		}
		xs = append(xs, float64(p.Year))
		ys = append(ys, p.Value)
	}
	sum.Points = len(ys)
	if len(ys) == 0 {
		return sum
	}

	sum.From, sum.To = int(xs[0]), int(xs[len(xs)-1])
	sum.First, sum.Last = Number(ys[0]), Number(ys[len(ys)-1])
	sum.Min = statOrNaN(stats.Min(ys))
	sum.Max = statOrNaN(stats.Max(ys))
	sum.Mean = statOrNaN(stats.Mean(ys))
	sum.Median = statOrNaN(stats.Median(ys))

	if span := sum.To - sum.From; span > 0 && ys[0] > 0 && ys[len(ys)-1] > 0 {
		sum.Growth = Number(math.Pow(ys[len(ys)-1]/ys[0], 1/float64(span)) - 1)
	}
	if len(ys) >= 2 {
		_, slope := stat.LinearRegression(xs, ys, nil, false)
		sum.Trend = Number(slope)
	}
	return sum
}

// SummarizeAll summarizes each series, preserving order.
func SummarizeAll(series []Series) []Summary {
	out := make([]Summary, len(series))
	for i, s := range series {
		out[i] = Summarize(s)
	}
	return out
}

func statOrNaN(v float64, err error) Number {
	if err != nil {
		return Number(math.NaN())
	}
	return Number(v)
}
