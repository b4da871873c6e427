package dto

type ViewRequest struct {
	View string `json:"view" binding:"required"` // "table" | "chart"
}

type AggregationRequest struct {
	GroupBy   string `json:"groupBy"`
	SeriesBy  string `json:"seriesBy,omitempty"`
	ValueKey  string `json:"valueKey"`
	Reducer   string `json:"reducer"`   // "sum", "count", "avg", "min", "max"
	ChartKind string `json:"chartKind"` // empty keeps the current kind
}

type SortRequest struct {
	Column string `json:"column" binding:"required"`
}

type SearchRequest struct {
	Term string `json:"term"`
}

type WindowRequest struct {
	ScrollTop      float64 `form:"scrollTop"`
	ViewportHeight float64 `form:"viewportHeight" binding:"required"`
}
