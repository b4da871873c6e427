package resultview

import (
	"datachat-resultview/internal/aggregate"
	"datachat-resultview/internal/chart"
	"datachat-resultview/internal/model"
	"datachat-resultview/internal/table"
)

type TableSnapshot struct {
	Columns       []model.Column   `json:"columns"`
	State         table.ViewState  `json:"state"`
	TotalCount    int              `json:"totalCount"`
	FilteredCount int              `json:"filteredCount"`
	EmptyState    table.EmptyState `json:"emptyState,omitempty"`
}

// Snapshot is the full state of a controller as served to clients. Rows are
// not included; clients page through them with table windows.
type Snapshot struct {
	View            View             `json:"view"`
	DefaultView     View             `json:"defaultView"`
	ChartCompatible bool             `json:"chartCompatible"`
	PlainText       string           `json:"plainText,omitempty"`
	Table           TableSnapshot    `json:"table"`
	Aggregation     aggregate.Spec   `json:"aggregation"`
	ChartKind       chart.Kind       `json:"chartKind"`
	Resolution      chart.Resolution `json:"resolution"`
	Chart           ChartState       `json:"chart"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	res, view, spec, kind, resolution, e := c.result, c.view, c.aggregation, c.kind, c.resolution, c.engine
	c.mu.RUnlock()

	return Snapshot{
		View:            view,
		DefaultView:     defaultView(res),
		ChartCompatible: res.HasNumericData,
		PlainText:       res.PlainText,
		Table: TableSnapshot{
			Columns:       e.Columns(),
			State:         e.State(),
			TotalCount:    e.TotalCount(),
			FilteredCount: e.FilteredCount(),
			EmptyState:    e.EmptyState(),
		},
		Aggregation: spec,
		ChartKind:   kind,
		Resolution:  resolution,
		Chart:       buildChart(res.Rows, spec, kind),
	}
}
