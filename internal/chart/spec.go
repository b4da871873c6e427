// Package chart derives a renderer-agnostic chart description from an
// aggregated pivot and rasterizes it for export.
package chart

import (
	"errors"
	"math"

	"datachat-resultview/internal/aggregate"
	"datachat-resultview/internal/format"
)

const (
	// LegendThreshold is the largest series (or slice) count that still
	// shows a legend.
	LegendThreshold = 5
	// RadarMinIndicatorMax keeps radars legible when every value is small.
	RadarMinIndicatorMax = 10

	barStack = "total"
)

// Guidance shown in place of a chart that cannot be drawn.
const (
	PlaceholderNoData   = "This answer has no rows, so there is nothing to chart. Try asking a broader question."
	PlaceholderNoValues = "Nothing to plot yet. Choose a numeric value column, or switch the reducer to count."
)

var ErrNothingToPlot = errors.New("nothing to plot")

var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
	Stack  string    `json:"stack,omitempty"`
	// RoundedTop marks, per category, the topmost nonzero segment of a stack.
	RoundedTop []bool `json:"roundedTop,omitempty"`
}

type Indicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

type TooltipEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type Tooltip struct {
	Category string         `json:"category"`
	Entries  []TooltipEntry `json:"entries"`
}

// Spec is everything a renderer needs to draw one chart.
type Spec struct {
	Kind          Kind        `json:"kind"`
	IndexKey      string      `json:"indexKey"`
	Categories    []string    `json:"categories"`
	Series        []Series    `json:"series"`
	Indicators    []Indicator `json:"indicators,omitempty"`
	LegendVisible bool        `json:"legendVisible"`
	Tooltips      []Tooltip   `json:"tooltips"`
}

// BuildFromPivot is BuildSpec over an aggregation result.
func BuildFromPivot(p aggregate.Pivot, kind Kind) (*Spec, error) {
	return BuildSpec(p.Rows, p.SeriesNames, p.IndexKey, kind)
}

// BuildSpec returns ErrNothingToPlot for empty input or when every value is
// zero. The chart is rebuilt from scratch on every call.
func BuildSpec(rows []aggregate.Row, seriesNames []string, indexKey string, kind Kind) (*Spec, error) {
	if len(rows) == 0 || indexKey == "" || len(seriesNames) == 0 || allZero(rows, seriesNames) {
		return nil, ErrNothingToPlot
	}
	if kind == "" {
		kind = Bar
	}

	spec := &Spec{
		Kind:       kind,
		IndexKey:   indexKey,
		Categories: make([]string, len(rows)),
	}
	for i, r := range rows {
		spec.Categories[i] = format.Category(r.Index)
	}

	switch {
	case kind.PartOfWhole():
		buildPartOfWhole(spec, rows, seriesNames)
		spec.LegendVisible = len(spec.Categories) <= LegendThreshold
	case kind == Radar:
		buildRadar(spec, rows, seriesNames)
		spec.LegendVisible = len(spec.Series) <= LegendThreshold
	default:
		buildCartesian(spec, rows, seriesNames)
		spec.LegendVisible = len(spec.Series) <= LegendThreshold
	}
	return spec, nil
}

func allZero(rows []aggregate.Row, seriesNames []string) bool {
	for _, r := range rows {
		for _, s := range seriesNames {
			if r.Values[s] != 0 {
				return false
			}
		}
	}
	return true
}

func color(i int) string {
	return palette[i%len(palette)]
}

func buildCartesian(spec *Spec, rows []aggregate.Row, seriesNames []string) {
	spec.Series = make([]Series, len(seriesNames))
	for si, name := range seriesNames {
		s := Series{Name: name, Values: make([]float64, len(rows)), Color: color(si)}
		for ri, r := range rows {
			s.Values[ri] = r.Values[name]
		}
		if spec.Kind == Bar {
			s.Stack = barStack
			s.RoundedTop = make([]bool, len(rows))
		}
		spec.Series[si] = s
	}

	if spec.Kind == Bar {
		for ri := range rows {
			for si := len(spec.Series) - 1; si >= 0; si-- {
				if spec.Series[si].Values[ri] != 0 {
					spec.Series[si].RoundedTop[ri] = true
					break
				}
			}
		}
	}

	spec.Tooltips = make([]Tooltip, len(rows))
	for ri, r := range rows {
		spec.Tooltips[ri] = tooltip(r.Index, seriesNames, func(name string) float64 { return r.Values[name] })
	}
}

// buildPartOfWhole plots one slice per category. Values of several series
// are summed; upstream normally collapses them to one already.
func buildPartOfWhole(spec *Spec, rows []aggregate.Row, seriesNames []string) {
	name := aggregate.DefaultSeries
	if len(seriesNames) == 1 {
		name = seriesNames[0]
	}
	s := Series{Name: name, Values: make([]float64, len(rows)), Color: color(0)}
	spec.Tooltips = make([]Tooltip, len(rows))
	for ri, r := range rows {
		var total float64
		for _, sn := range seriesNames {
			total += r.Values[sn]
		}
		s.Values[ri] = total
		spec.Tooltips[ri] = tooltip(r.Index, []string{name}, func(string) float64 { return total })
	}
	spec.Series = []Series{s}
}

// buildRadar draws one shape per category over one axis per series.
func buildRadar(spec *Spec, rows []aggregate.Row, seriesNames []string) {
	spec.Indicators = make([]Indicator, len(seriesNames))
	for si, name := range seriesNames {
		max := math.Inf(-1)
		for _, r := range rows {
			if v := r.Values[name]; v > max {
				max = v
			}
		}
		spec.Indicators[si] = Indicator{Name: name, Max: math.Max(max, RadarMinIndicatorMax)}
	}

	spec.Series = make([]Series, len(rows))
	spec.Tooltips = make([]Tooltip, len(rows))
	for ri, r := range rows {
		s := Series{Name: spec.Categories[ri], Values: make([]float64, len(seriesNames)), Color: color(ri)}
		for si, name := range seriesNames {
			s.Values[si] = r.Values[name]
		}
		spec.Series[ri] = s
		spec.Tooltips[ri] = tooltip(r.Index, seriesNames, func(name string) float64 { return r.Values[name] })
	}
}

// tooltip lists nonzero entries only; zero means no contribution.
func tooltip(category string, names []string, value func(string) float64) Tooltip {
	t := Tooltip{Category: category, Entries: []TooltipEntry{}}
	for _, name := range names {
		v := value(name)
		if v == 0 {
			continue
		}
		t.Entries = append(t.Entries, TooltipEntry{Name: name, Value: v, Text: format.Number(v)})
	}
	return t
}
