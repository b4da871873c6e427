package table

import "math"

const (
	DefaultRowHeight = 36
	DefaultOverscan  = 10
)

// Window is the slice of rows that has to be materialized for the current
// scroll position.
type Window struct {
	Start       int     `json:"start"`
	End         int     `json:"end"` // exclusive
	OffsetTop   float64 `json:"offsetTop"`
	TotalHeight float64 `json:"totalHeight"`
}

func (w Window) Len() int { return w.End - w.Start }

// ComputeWindow returns the visible range for rowCount rows of rowHeight
// pixels, padded by overscan rows on both sides.
func ComputeWindow(rowCount int, rowHeight float64, overscan int, scrollTop, viewportHeight float64) Window {
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	if overscan < 0 {
		overscan = 0
	}
	w := Window{TotalHeight: float64(rowCount) * rowHeight}
	if rowCount == 0 {
		return w
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	first := int(math.Floor(scrollTop / rowHeight))
	visible := int(math.Ceil(viewportHeight / rowHeight))

	w.Start = clamp(first-overscan, 0, rowCount)
	w.End = clamp(first+visible+overscan, w.Start, rowCount)
	w.OffsetTop = float64(w.Start) * rowHeight
	return w
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
