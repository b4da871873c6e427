// Package aggregate pivots raw answer rows into one row per index value with
// one numeric column per series.
package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"datachat-resultview/internal/format"
	"datachat-resultview/internal/model"
	"datachat-resultview/internal/schema"

	"github.com/rs/zerolog/log"
)

// Reducer is the function applied to the values of one (index, series) cell.
type Reducer string

const (
	Sum   Reducer = "sum"
	Count Reducer = "count"
	Avg   Reducer = "avg"
	Min   Reducer = "min"
	Max   Reducer = "max"
)

const (
	// DefaultSeries names the only series when no split key applies.
	DefaultSeries = "value"
	// LabelColumn is synthesized when rows have no textual column.
	LabelColumn = "label"
	// BlankLabel stands in for null or empty index and series values.
	BlankLabel = "(blank)"
	// DefaultIndexKey is preferred as index when present.
	DefaultIndexKey = "branch_name"
)

var ErrNoValueColumn = errors.New("no numeric column to aggregate")

// ParseReducer accepts sum, count, avg, min and max in any case. An empty
// string means sum.
func ParseReducer(s string) (Reducer, error) {
	switch r := Reducer(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return Sum, nil
	case Sum, Count, Avg, Min, Max:
		return r, nil
	default:
		return "", fmt.Errorf("unknown reducer %q", s)
	}
}

// Spec selects what to aggregate. All keys are optional; missing or
// unusable keys fall back to inferred defaults.
type Spec struct {
	GroupBy  string  `json:"groupBy"`
	SeriesBy string  `json:"seriesBy,omitempty"`
	ValueKey string  `json:"valueKey"`
	Reducer  Reducer `json:"reducer"`
	// SingleSeries collapses every series into one, as part-of-whole charts need.
	SingleSeries bool `json:"singleSeries,omitempty"`
	// IndexDefault overrides DefaultIndexKey.
	IndexDefault string `json:"-"`
}

// Row is one pivoted row. Values holds an entry for every series name.
type Row struct {
	Index  string             `json:"index"`
	Values map[string]float64 `json:"values"`
}

// Pivot is the aggregation result shared by chart and table rendering.
type Pivot struct {
	Rows        []Row    `json:"rows"`
	SeriesNames []string `json:"seriesNames"`
	IndexKey    string   `json:"indexKey"`
	SeriesKey   string   `json:"seriesKey,omitempty"`
	ValueKey    string   `json:"valueKey,omitempty"`
	Reducer     Reducer  `json:"reducer"`
}

func (p Pivot) Empty() bool {
	return len(p.Rows) == 0 || len(p.SeriesNames) == 0 || p.IndexKey == ""
}

// SeriesColumns maps each series name to its column key in Records. A series
// named like the index column gets the reducer appended so the index survives.
func (p Pivot) SeriesColumns() map[string]string {
	taken := map[string]bool{p.IndexKey: true}
	for _, s := range p.SeriesNames {
		taken[s] = true
	}
	out := make(map[string]string, len(p.SeriesNames))
	for _, s := range p.SeriesNames {
		key := s
		if s == p.IndexKey {
			key = s + "_" + string(p.Reducer)
			for taken[key] {
				key += "_"
			}
			taken[key] = true
		}
		out[s] = key
	}
	return out
}

// Records flattens the pivot into records: the index column followed by one
// column per series, keyed as SeriesColumns says.
func (p Pivot) Records() []model.Record {
	keys := p.SeriesColumns()
	out := make([]model.Record, 0, len(p.Rows))
	for _, r := range p.Rows {
		rec := model.NewRecord()
		rec.Set(p.IndexKey, r.Index)
		for _, s := range p.SeriesNames {
			rec.Set(keys[s], r.Values[s])
		}
		out = append(out, rec)
	}
	return out
}

// Columns describes Records: a text index column and numeric series columns.
func (p Pivot) Columns() []model.Column {
	keys := p.SeriesColumns()
	out := make([]model.Column, 0, len(p.SeriesNames)+1)
	out = append(out, model.Column{Key: p.IndexKey, Label: format.Header(p.IndexKey), Kind: model.KindText})
	for _, s := range p.SeriesNames {
		out = append(out, model.Column{Key: keys[s], Label: format.Header(keys[s]), Kind: model.KindNumeric})
	}
	return out
}

type cell struct {
	total float64
	count int
	ext   float64
	seen  bool
}

func (c *cell) add(r Reducer, v float64) {
	switch r {
	case Count:
		c.count++
	case Avg:
		c.total += v
		c.count++
	case Min:
		if !c.seen || v < c.ext {
			c.ext = v
		}
	case Max:
		if !c.seen || v > c.ext {
			c.ext = v
		}
	default:
		c.total += v
	}
	c.seen = true
}

func (c *cell) result(r Reducer) float64 {
	switch r {
	case Count:
		return float64(c.count)
	case Avg:
		if c.count == 0 {
			return 0
		}
		return c.total / float64(c.count)
	case Min, Max:
		return c.ext
	default:
		return c.total
	}
}

type cellKey struct {
	index  string
	series string
}

// Aggregate pivots rows according to spec. It returns ErrNoValueColumn when
// the reducer needs a numeric column and none exists.
func Aggregate(rows []model.Record, spec Spec) (Pivot, error) {
	reducer := spec.Reducer
	if reducer == "" {
		reducer = Sum
	}
	if len(rows) == 0 {
		return Pivot{Rows: []Row{}, SeriesNames: []string{}, Reducer: reducer}, nil
	}

	cols := schema.InferColumns(rows)
	valueKey := resolveValueKey(cols, spec.ValueKey)
	if valueKey == "" && reducer != Count {
		log.Debug().Str("reducer", string(reducer)).Msg("No numeric column available for aggregation")
		return Pivot{Rows: []Row{}, SeriesNames: []string{}, Reducer: reducer}, ErrNoValueColumn
	}

	textual := textualColumns(cols, valueKey)
	synthetic := len(textual) == 0
	indexKey := LabelColumn
	seriesKey := ""
	if !synthetic {
		indexKey = resolveIndexKey(textual, spec)
		seriesKey = resolveSeriesKey(textual, indexKey, spec)
	}

	cells := make(map[cellKey]*cell)
	var indexOrder, seriesOrder []string
	seenIndex := make(map[string]bool)
	seenSeries := make(map[string]bool)

	for i, r := range rows {
		var idx string
		if synthetic {
			idx = fmt.Sprintf("Item %d", i+1)
		} else {
			idx = labelOf(r, indexKey)
		}
		series := DefaultSeries
		if seriesKey != "" {
			series = labelOf(r, seriesKey)
		}
		if !seenIndex[idx] {
			seenIndex[idx] = true
			indexOrder = append(indexOrder, idx)
		}
		if !seenSeries[series] {
			seenSeries[series] = true
			seriesOrder = append(seriesOrder, series)
		}

		k := cellKey{idx, series}
		c, ok := cells[k]
		if !ok {
			c = &cell{}
			cells[k] = c
		}
		var v float64
		if valueKey != "" {
			v = model.NumberOrZero(r.Values[valueKey])
		}
		c.add(reducer, v)
	}

	out := Pivot{
		Rows:        make([]Row, 0, len(indexOrder)),
		SeriesNames: seriesOrder,
		IndexKey:    indexKey,
		SeriesKey:   seriesKey,
		ValueKey:    valueKey,
		Reducer:     reducer,
	}
	for _, idx := range indexOrder {
		row := Row{Index: idx, Values: make(map[string]float64, len(seriesOrder))}
		for _, s := range seriesOrder {
			if c, ok := cells[cellKey{idx, s}]; ok {
				row.Values[s] = c.result(reducer)
			} else {
				row.Values[s] = 0
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

func resolveValueKey(cols []model.Column, requested string) string {
	if c, ok := model.FindColumn(cols, requested); ok && c.IsNumeric() {
		return c.Key
	}
	for _, c := range cols {
		if c.IsNumeric() {
			return c.Key
		}
	}
	return ""
}

func textualColumns(cols []model.Column, valueKey string) []string {
	var keys []string
	for _, c := range cols {
		if !c.IsNumeric() && c.Key != valueKey {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

func contains(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}

func resolveIndexKey(textual []string, spec Spec) string {
	if spec.GroupBy != "" && contains(textual, spec.GroupBy) {
		return spec.GroupBy
	}
	def := spec.IndexDefault
	if def == "" {
		def = DefaultIndexKey
	}
	if contains(textual, def) {
		return def
	}
	return textual[0]
}

// resolveSeriesKey picks at most one split key: an explicit SeriesBy, or else
// the first textual sibling of a textual GroupBy.
func resolveSeriesKey(textual []string, indexKey string, spec Spec) string {
	if spec.SingleSeries {
		return ""
	}
	if spec.SeriesBy != "" && spec.SeriesBy != indexKey && contains(textual, spec.SeriesBy) {
		return spec.SeriesBy
	}
	if spec.GroupBy == "" || !contains(textual, spec.GroupBy) {
		return ""
	}
	for _, k := range textual {
		if k != indexKey {
			return k
		}
	}
	return ""
}

func labelOf(r model.Record, key string) string {
	s := model.ToString(r.Values[key])
	if strings.TrimSpace(s) == "" {
		return BlankLabel
	}
	return s
}
