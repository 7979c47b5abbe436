// Package plot renders dynophore statistics as 2D charts: occurrence
// barcodes, frequency heatmaps, distance series and histograms. Figures
// are assembled as data elements on axes and rendered to PNG or SVG.
package plot

import (
	"image/color"
	"math"
	"strconv"
)

// Rect is an axes-aligned pixel rectangle inside a figure.
type Rect struct {
	X, Y, W, H float64
}

// Tick is one axis tick: a data coordinate and its label.
type Tick struct {
	Value float64
	Label string
}

// LegendEntry is one legend row.
type LegendEntry struct {
	Label string
	Color color.RGBA
}

// Figure is a fixed-size canvas holding one or more axes.
type Figure struct {
	Width  int
	Height int

	// Title is drawn centered above all axes when set.
	Title string

	axes []*Axes
}

// NewFigure creates an empty figure of the given pixel size.
func NewFigure(width, height int) *Figure {
	return &Figure{Width: width, Height: height}
}

// AddAxes places a new axes at the given plot area and returns it.
func (f *Figure) AddAxes(area Rect) *Axes {
	a := &Axes{area: area}
	f.axes = append(f.axes, a)
	return a
}

// Axes returns the figure's axes in insertion order.
func (f *Figure) Axes() []*Axes { return f.axes }

// Axes is one plot area: data elements plus the axis furniture around
// them. Cosmetics (labels, limits, ticks) may be adjusted after a plot
// function returns and before the figure is saved.
type Axes struct {
	Title  string
	XLabel string
	YLabel string

	area Rect

	xmin, xmax   float64
	ymin, ymax   float64
	hasXLim      bool
	hasYLim      bool
	yInverted    bool
	hidden       bool
	xticks       []Tick
	yticks       []Tick
	hasXTicks    bool
	hasYTicks    bool
	xTicksAcross bool

	legend   []LegendEntry
	elements []element
}

// SetXLim fixes the horizontal data range.
func (a *Axes) SetXLim(lo, hi float64) { a.xmin, a.xmax, a.hasXLim = lo, hi, true }

// SetYLim fixes the vertical data range.
func (a *Axes) SetYLim(lo, hi float64) { a.ymin, a.ymax, a.hasYLim = lo, hi, true }

// XLim returns the horizontal data range. Before rendering it is only
// meaningful when SetXLim was called.
func (a *Axes) XLim() (lo, hi float64) { return a.xmin, a.xmax }

// YLim returns the vertical data range.
func (a *Axes) YLim() (lo, hi float64) { return a.ymin, a.ymax }

// InvertY flips the vertical axis so that small values sit at the top.
func (a *Axes) InvertY() { a.yInverted = true }

// YInverted reports whether the vertical axis is flipped.
func (a *Axes) YInverted() bool { return a.yInverted }

// Hide turns off all axis furniture. Elements are not drawn either; a
// hidden axes only shows its legend, if one is set.
func (a *Axes) Hide() { a.hidden = true }

// Hidden reports whether the axes is hidden.
func (a *Axes) Hidden() bool { return a.hidden }

// SetXTicks replaces the computed horizontal ticks.
func (a *Axes) SetXTicks(ticks []Tick) { a.xticks, a.hasXTicks = ticks, true }

// SetYTicks replaces the computed vertical ticks.
func (a *Axes) SetYTicks(ticks []Tick) { a.yticks, a.hasYTicks = ticks, true }

// XTicks returns the horizontal ticks set so far.
func (a *Axes) XTicks() []Tick { return a.xticks }

// YTicks returns the vertical ticks set so far.
func (a *Axes) YTicks() []Tick { return a.yticks }

// RotateXTickLabels renders horizontal tick labels top-to-bottom, for
// long categorical column names.
func (a *Axes) RotateXTickLabels() { a.xTicksAcross = true }

// SetLegend sets the legend rows drawn into the plot area.
func (a *Axes) SetLegend(entries []LegendEntry) { a.legend = entries }

// Legend returns the legend rows set so far.
func (a *Axes) Legend() []LegendEntry { return a.legend }

// AddDots adds a marker-only series. Pairs with a missing coordinate are
// skipped.
func (a *Axes) AddDots(label string, x, y []float64, c color.RGBA) {
	a.elements = append(a.elements, &dotSeries{label: label, x: x, y: y, color: c, radius: 2.5})
}

// AddLine adds a polyline series. Missing coordinates break the line.
func (a *Axes) AddLine(label string, x, y []float64, c color.RGBA, width float64) {
	a.elements = append(a.elements, &lineSeries{label: label, x: x, y: y, color: c, width: width})
}

// AddBars adds one histogram series: len(edges) must be len(heights)+1.
// Horizontal bars grow along X with bins stacked on the Y axis.
func (a *Axes) AddBars(label string, edges, heights []float64, c color.RGBA, alpha float64, horizontal bool) {
	a.elements = append(a.elements, &barSeries{
		label: label, edges: edges, heights: heights,
		color: c, alpha: alpha, horizontal: horizontal,
	})
}

// AddHeatGrid adds a cell grid colored by value, plus a colorbar. cells
// is row-major with rows[0] drawn at the top.
func (a *Axes) AddHeatGrid(rows, cols []string, cells [][]float64, vmin, vmax float64, barLabel string) {
	a.elements = append(a.elements, &heatGrid{
		rows: rows, cols: cols, cells: cells,
		vmin: vmin, vmax: vmax, barLabel: barLabel,
	})
}

// --- elements --------------------------------------------------------------

type element interface {
	// bounds returns the data-space extent of the element. ok is false
	// when the element holds no drawable data.
	bounds() (x0, x1, y0, y1 float64, ok bool)
}

type dotSeries struct {
	label  string
	x, y   []float64
	color  color.RGBA
	radius float64
}

type lineSeries struct {
	label string
	x, y  []float64
	color color.RGBA
	width float64
}

type barSeries struct {
	label      string
	edges      []float64
	heights    []float64
	color      color.RGBA
	alpha      float64
	horizontal bool
}

type heatGrid struct {
	rows, cols []string
	cells      [][]float64
	vmin, vmax float64
	barLabel   string
}

func seriesBounds(xs, ys []float64) (x0, x1, y0, y1 float64, ok bool) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for i := range xs {
		if i >= len(ys) {
			break
		}
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x0, x1 = math.Min(x0, xs[i]), math.Max(x1, xs[i])
		y0, y1 = math.Min(y0, ys[i]), math.Max(y1, ys[i])
		ok = true
	}
	return x0, x1, y0, y1, ok
}

func (s *dotSeries) bounds() (float64, float64, float64, float64, bool) {
	return seriesBounds(s.x, s.y)
}

func (s *lineSeries) bounds() (float64, float64, float64, float64, bool) {
	return seriesBounds(s.x, s.y)
}

func (s *barSeries) bounds() (x0, x1, y0, y1 float64, ok bool) {
	if len(s.edges) < 2 || len(s.heights) == 0 {
		return 0, 0, 0, 0, false
	}
	top := 0.0
	for _, h := range s.heights {
		top = math.Max(top, h)
	}
	if s.horizontal {
		return 0, top, s.edges[0], s.edges[len(s.edges)-1], true
	}
	return s.edges[0], s.edges[len(s.edges)-1], 0, top, true
}

func (g *heatGrid) bounds() (x0, x1, y0, y1 float64, ok bool) {
	return 0, float64(len(g.cols)), 0, float64(len(g.rows)), true
}

// --- limits and ticks ------------------------------------------------------

// finalize fills in limits and ticks not set explicitly. Backends call
// it once per axes before drawing.
func (a *Axes) finalize() {
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	any := false
	for _, el := range a.elements {
		ex0, ex1, ey0, ey1, ok := el.bounds()
		if !ok {
			continue
		}
		x0, x1 = math.Min(x0, ex0), math.Max(x1, ex1)
		y0, y1 = math.Min(y0, ey0), math.Max(y1, ey1)
		any = true
	}
	if !a.hasXLim {
		a.xmin, a.xmax = paddedRange(x0, x1, any)
		a.hasXLim = true
	}
	if !a.hasYLim {
		a.ymin, a.ymax = paddedRange(y0, y1, any)
		a.hasYLim = true
	}
	if !a.hasXTicks {
		a.xticks = niceTicks(a.xmin, a.xmax, 6)
		a.hasXTicks = true
	}
	if !a.hasYTicks {
		a.yticks = niceTicks(a.ymin, a.ymax, 6)
		a.hasYTicks = true
	}
}

// paddedRange widens a data extent by 5% per side, falling back to the
// unit range when there is no data.
func paddedRange(lo, hi float64, ok bool) (float64, float64) {
	if !ok {
		return 0, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// xPix maps a data X coordinate to figure pixels.
func (a *Axes) xPix(v float64) float64 {
	if a.xmax == a.xmin {
		return a.area.X + a.area.W/2
	}
	return a.area.X + (v-a.xmin)/(a.xmax-a.xmin)*a.area.W
}

// yPix maps a data Y coordinate to figure pixels, honoring inversion.
func (a *Axes) yPix(v float64) float64 {
	if a.ymax == a.ymin {
		return a.area.Y + a.area.H/2
	}
	t := (v - a.ymin) / (a.ymax - a.ymin)
	if !a.yInverted {
		t = 1 - t
	}
	return a.area.Y + t*a.area.H
}

// niceTicks places about want round-valued ticks across [lo, hi].
func niceTicks(lo, hi float64, want int) []Tick {
	if want < 2 {
		want = 2
	}
	span := hi - lo
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return []Tick{{Value: lo, Label: tickLabel(lo, 1)}}
	}
	step := niceNum(span/float64(want-1), true)
	start := math.Ceil(lo/step) * step
	var ticks []Tick
	for v := start; v <= hi+step*1e-6; v += step {
		ticks = append(ticks, Tick{Value: v, Label: tickLabel(v, step)})
	}
	return ticks
}

// niceNum rounds x to a 1/2/5 multiple of a power of ten.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	frac := x / math.Pow(10, exp)
	var nice float64
	if round {
		switch {
		case frac < 1.5:
			nice = 1
		case frac < 3:
			nice = 2
		case frac < 7:
			nice = 5
		default:
			nice = 10
		}
	} else {
		switch {
		case frac <= 1:
			nice = 1
		case frac <= 2:
			nice = 2
		case frac <= 5:
			nice = 5
		default:
			nice = 10
		}
	}
	return nice * math.Pow(10, exp)
}

func tickLabel(v, step float64) string {
	digits := 0
	if step < 1 {
		digits = int(math.Ceil(-math.Log10(step)))
		if digits > 6 {
			digits = 6
		}
	}
	if math.Abs(v) < step*1e-9 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}
