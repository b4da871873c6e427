// Package resultview owns everything shown for one chatbot answer: the
// inferred dataset, the table state, the aggregation and the chart.
package resultview

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"datachat-resultview/internal/aggregate"
	"datachat-resultview/internal/chart"
	"datachat-resultview/internal/export"
	"datachat-resultview/internal/model"
	"datachat-resultview/internal/schema"
	"datachat-resultview/internal/table"
)

type View string

const (
	TableView View = "table"
	ChartView View = "chart"
)

func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case TableView, ChartView:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// CompatibilityListener is told after every load whether the data can be
// charted, so the host can decide to show the table/chart toggle.
type CompatibilityListener func(chartCompatible bool, defaultView View)

type Options struct {
	Table        table.Options
	ChartKind    chart.Kind
	IndexDefault string
	Rasterizer   chart.Rasterizer
}

func DefaultOptions() Options {
	return Options{
		Table:      table.DefaultOptions(),
		ChartKind:  chart.Bar,
		Rasterizer: chart.NewPNGRasterizer(chart.DefaultWidth, chart.DefaultHeight),
	}
}

// PivotTable is the aggregated view rendered as a table.
type PivotTable struct {
	Columns []model.Column `json:"columns"`
	Rows    []model.Record `json:"rows"`
}

func newPivotTable(p aggregate.Pivot) *PivotTable {
	return &PivotTable{Columns: p.Columns(), Rows: p.Records()}
}

// ChartState is the chart as the client draws it: a spec or a placeholder.
// Table carries the same aggregation whenever one could be computed.
type ChartState struct {
	Spec        *chart.Spec      `json:"spec,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Pivot       *aggregate.Pivot `json:"pivot,omitempty"`
	Table       *PivotTable      `json:"table,omitempty"`
}

func (s ChartState) Valid() bool { return s.Spec != nil }

// Controller is the per-answer state machine between the table and chart
// views. One instance serves exactly one answer; Load replaces the dataset
// and resets all derived state.
type Controller struct {
	mu          sync.RWMutex
	opts        Options
	listener    CompatibilityListener
	result      schema.Result
	engine      *table.Engine
	view        View
	aggregation aggregate.Spec
	kind        chart.Kind
	resolution  chart.Resolution
}

func New(opts Options, listener CompatibilityListener) *Controller {
	if opts.ChartKind == "" {
		opts.ChartKind = chart.Bar
	}
	if opts.Rasterizer == nil {
		opts.Rasterizer = chart.NewPNGRasterizer(chart.DefaultWidth, chart.DefaultHeight)
	}
	c := &Controller{opts: opts, listener: listener}
	c.reset(schema.Result{Rows: []model.Record{}, Columns: []model.Column{}})
	return c
}

// Load infers a new dataset from payload. It never fails: malformed payloads
// become plain text.
func (c *Controller) Load(payload []byte) schema.Result {
	res := schema.Infer(payload)
	c.LoadResult(res)
	return res
}

func (c *Controller) LoadResult(res schema.Result) {
	c.mu.Lock()
	c.reset(res)
	compatible, view := res.HasNumericData, c.view
	c.mu.Unlock()

	if c.listener != nil {
		c.listener(compatible, view)
	}
}

func (c *Controller) reset(res schema.Result) {
	if c.engine != nil {
		c.engine.Close()
	}
	c.result = res
	c.engine = table.NewEngine(res.Rows, res.Columns, c.opts.Table)
	c.view = defaultView(res)
	c.aggregation = aggregate.Spec{Reducer: aggregate.Sum, IndexDefault: c.opts.IndexDefault}
	c.kind = c.opts.ChartKind
	c.resolution = chart.Standard
}

func defaultView(res schema.Result) View {
	if res.HasNumericData {
		return ChartView
	}
	return TableView
}

func (c *Controller) Result() schema.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

func (c *Controller) DefaultView() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return defaultView(c.result)
}

// SetView switches freely regardless of data shape.
func (c *Controller) SetView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

func (c *Controller) Toggle() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view == ChartView {
		c.view = TableView
	} else {
		c.view = ChartView
	}
	return c.view
}

func (c *Controller) Table() *table.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

func (c *Controller) Aggregation() (aggregate.Spec, chart.Kind) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.aggregation, c.kind
}

// SetAggregation replaces the aggregation spec and chart kind. An empty
// kind keeps the current one.
func (c *Controller) SetAggregation(spec aggregate.Spec, kind chart.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if spec.Reducer == "" {
		spec.Reducer = aggregate.Sum
	}
	if spec.IndexDefault == "" {
		spec.IndexDefault = c.opts.IndexDefault
	}
	c.aggregation = spec
	if kind != "" {
		c.kind = kind
	}
}

func (c *Controller) SetChartKind(kind chart.Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = kind
}

func (c *Controller) SetResolution(r chart.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolution = r
}

// Pivot aggregates the current rows for the current chart kind.
// Part-of-whole kinds always collapse to a single series.
func (c *Controller) Pivot() (aggregate.Pivot, error) {
	c.mu.RLock()
	rows, spec, kind := c.result.Rows, c.aggregation, c.kind
	c.mu.RUnlock()
	return pivot(rows, spec, kind)
}

func pivot(rows []model.Record, spec aggregate.Spec, kind chart.Kind) (aggregate.Pivot, error) {
	if kind.PartOfWhole() {
		spec.SingleSeries = true
	}
	return aggregate.Aggregate(rows, spec)
}

// Chart recomputes the pivot and the chart spec from scratch.
func (c *Controller) Chart() ChartState {
	c.mu.RLock()
	rows, spec, kind := c.result.Rows, c.aggregation, c.kind
	c.mu.RUnlock()
	return buildChart(rows, spec, kind)
}

func buildChart(rows []model.Record, spec aggregate.Spec, kind chart.Kind) ChartState {
	if len(rows) == 0 {
		return ChartState{Placeholder: chart.PlaceholderNoData}
	}
	p, err := pivot(rows, spec, kind)
	if err != nil {
		return ChartState{Placeholder: chart.PlaceholderNoValues}
	}
	t := newPivotTable(p)
	cs, err := chart.BuildFromPivot(p, kind)
	if err != nil {
		log.Debug().Str("kind", string(kind)).Int("rows", len(p.Rows)).Msg("Nothing to plot")
		return ChartState{Placeholder: chart.PlaceholderNoValues, Pivot: &p, Table: t}
	}
	return ChartState{Spec: cs, Pivot: &p, Table: t}
}

// ExportTable renders the filtered and sorted rows to a workbook. A pending
// search is applied first. Nothing is returned on failure.
func (c *Controller) ExportTable() (string, []byte, error) {
	e := c.Table()
	e.FlushSearch()

	var buf bytes.Buffer
	if err := export.WriteTable(&buf, e.Rows(), e.Columns()); err != nil {
		log.Error().Err(err).Msg("Failed to export table")
		return "", nil, fmt.Errorf("export table: %w", err)
	}
	return export.TableFileName, buf.Bytes(), nil
}

// ExportPivotTable writes the current aggregation as a workbook, one row per
// index value. It returns aggregate.ErrNoValueColumn when no column can be
// reduced and chart.ErrNothingToPlot when there are no rows.
func (c *Controller) ExportPivotTable() (string, []byte, error) {
	p, err := c.Pivot()
	if err != nil {
		return "", nil, err
	}
	if p.Empty() {
		return "", nil, chart.ErrNothingToPlot
	}

	var buf bytes.Buffer
	if err := export.WriteTable(&buf, p.Records(), p.Columns()); err != nil {
		log.Error().Err(err).Msg("Failed to export pivot table")
		return "", nil, fmt.Errorf("export pivot table: %w", err)
	}
	return export.PivotFileName, buf.Bytes(), nil
}

// ExportChart rasterizes the current chart. An empty resolution uses the
// one last selected.
func (c *Controller) ExportChart(res chart.Resolution) (string, []byte, error) {
	c.mu.Lock()
	if res == "" {
		res = c.resolution
	}
	c.resolution = res
	rows, spec, kind := c.result.Rows, c.aggregation, c.kind
	c.mu.Unlock()

	state := buildChart(rows, spec, kind)
	if !state.Valid() {
		return "", nil, chart.ErrNothingToPlot
	}
	img, err := c.opts.Rasterizer.Rasterize(state.Spec, res.Scale())
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Str("resolution", string(res)).Msg("Failed to export chart")
		return "", nil, fmt.Errorf("export chart: %w", err)
	}
	return chart.FileName(kind, res), img, nil
}

// Close drops pending timers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine != nil {
		c.engine.Close()
	}
}
