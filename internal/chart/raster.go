package chart

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 512

	baseDPI = 92.0
)

// Rasterizer turns a chart spec into an image at the given scale.
type Rasterizer interface {
	Rasterize(spec *Spec, scale int) ([]byte, error)
}

type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

type pngRasterizer struct {
	width  int
	height int
}

func NewPNGRasterizer(width, height int) Rasterizer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &pngRasterizer{width: width, height: height}
}

func (r *pngRasterizer) Rasterize(spec *Spec, scale int) (out []byte, err error) {
	if spec == nil || len(spec.Series) == 0 {
		return nil, ErrNothingToPlot
	}
	if scale < 1 {
		scale = 1
	}
	// go-chart panics on a few degenerate ranges; report those as errors.
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("rasterize %s chart: %v", spec.Kind, rec)
		}
	}()

	w, h, dpi := r.width*scale, r.height*scale, baseDPI*float64(scale)

	var c renderable
	switch spec.Kind {
	case Pie, Treemap:
		c = pieChart(spec, w, h, dpi)
	case Funnel:
		c = funnelChart(spec, w, h, dpi)
	case Bar:
		if len(spec.Series) == 1 {
			c = barChart(spec, w, h, dpi)
		} else {
			c = stackedBarChart(spec, w, h, dpi)
		}
	case Radar:
		c = radarChart(spec, w, h, dpi)
	default:
		c = lineChart(spec, w, h, dpi)
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rasterize %s chart: %w", spec.Kind, err)
	}
	return buf.Bytes(), nil
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

func pieChart(spec *Spec, w, h int, dpi float64) *gochart.PieChart {
	values := make([]gochart.Value, 0, len(spec.Categories))
	for i, cat := range spec.Categories {
		v := spec.Series[0].Values[i]
		if v <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: cat,
			Value: v,
			Style: gochart.Style{FillColor: hexColor(color(i)), StrokeColor: drawing.ColorWhite},
		})
	}
	// slices carry their own labels
	return &gochart.PieChart{Width: w, Height: h, DPI: dpi, Values: values}
}

// funnelChart draws the funnel as bars in descending order.
func funnelChart(spec *Spec, w, h int, dpi float64) *gochart.BarChart {
	bars := barValues(spec, 0)
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })
	return &gochart.BarChart{
		Width:    w,
		Height:   h,
		DPI:      dpi,
		BarWidth: barWidth(w, len(bars)),
		Bars:     bars,
	}
}

func barValues(spec *Spec, series int) []gochart.Value {
	s := spec.Series[series]
	bars := make([]gochart.Value, len(spec.Categories))
	for i, cat := range spec.Categories {
		bars[i] = gochart.Value{
			Label: cat,
			Value: s.Values[i],
			Style: gochart.Style{FillColor: hexColor(s.Color), StrokeColor: hexColor(s.Color)},
		}
	}
	return bars
}

func barWidth(w, n int) int {
	if n == 0 {
		return 0
	}
	bw := (w - 120) / (n * 2)
	if bw < 4 {
		return 4
	}
	if bw > 60 {
		return 60
	}
	return bw
}

func barChart(spec *Spec, w, h int, dpi float64) *gochart.BarChart {
	bars := barValues(spec, 0)
	return &gochart.BarChart{
		Width:    w,
		Height:   h,
		DPI:      dpi,
		BarWidth: barWidth(w, len(bars)),
		Bars:     bars,
	}
}

func stackedBarChart(spec *Spec, w, h int, dpi float64) *gochart.StackedBarChart {
	bars := make([]gochart.StackedBar, len(spec.Categories))
	for i, cat := range spec.Categories {
		bar := gochart.StackedBar{Name: cat, Width: barWidth(w, len(spec.Categories))}
		for _, s := range spec.Series {
			if s.Values[i] == 0 {
				continue
			}
			bar.Values = append(bar.Values, gochart.Value{
				Label: s.Name,
				Value: s.Values[i],
				Style: gochart.Style{FillColor: hexColor(s.Color), StrokeColor: hexColor(s.Color)},
			})
		}
		bars[i] = bar
	}
	return &gochart.StackedBarChart{Width: w, Height: h, DPI: dpi, Bars: bars}
}

// lineChart covers line, area and scatter. X positions are category indexes
// labelled by tick; a lone category is padded to a two-point series.
func lineChart(spec *Spec, w, h int, dpi float64) *gochart.Chart {
	return continuousChart(spec.Kind, spec.Categories, spec.Series, spec.LegendVisible, w, h, dpi)
}

// radarChart has no polar renderer in go-chart; each category becomes a
// line across the indicator axes.
func radarChart(spec *Spec, w, h int, dpi float64) *gochart.Chart {
	axes := make([]string, len(spec.Indicators))
	for i, ind := range spec.Indicators {
		axes[i] = ind.Name
	}
	c := continuousChart(Line, axes, spec.Series, spec.LegendVisible, w, h, dpi)
	max := 0.0
	for _, ind := range spec.Indicators {
		if ind.Max > max {
			max = ind.Max
		}
	}
	c.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: max}
	return c
}

func continuousChart(kind Kind, labels []string, series []Series, legend bool, w, h int, dpi float64) *gochart.Chart {
	xs := make([]float64, len(labels))
	ticks := make([]gochart.Tick, len(labels))
	for i, l := range labels {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: l}
	}

	out := make([]gochart.Series, 0, len(series))
	for _, s := range series {
		x, y := xs, s.Values
		if len(x) == 1 {
			x = []float64{xs[0], xs[0] + 1}
			y = []float64{s.Values[0], s.Values[0]}
		}
		out = append(out, gochart.ContinuousSeries{Name: s.Name, XValues: x, YValues: y, Style: seriesStyle(kind, s.Color)})
	}

	c := &gochart.Chart{
		Width:  w,
		Height: h,
		DPI:    dpi,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  gochart.XAxis{Ticks: ticks},
		Series: out,
	}
	if legend {
		c.Elements = []gochart.Renderable{gochart.Legend(c)}
	}
	return c
}

func seriesStyle(kind Kind, hex string) gochart.Style {
	col := hexColor(hex)
	switch kind {
	case Area:
		return gochart.Style{StrokeColor: col, StrokeWidth: 2, FillColor: col.WithAlpha(64)}
	case Scatter:
		return gochart.Style{StrokeColor: drawing.ColorTransparent, DotWidth: 4, DotColor: col}
	default:
		return gochart.Style{StrokeColor: col, StrokeWidth: 2}
	}
}
