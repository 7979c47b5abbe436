package plot

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

const (
	ovWidth  = 1500
	ovHeight = 700
	ovLeft   = 80
	ovRight  = 30
	ovTop    = 50
	ovBottom = 70
	ovWGap   = 20
	ovHGap   = 50
)

// OverviewOptions configures the single-superfeature overview figure.
type OverviewOptions struct {
	Frames FrameSelection
}

// EnvPartnerInteractions plots everything about one superfeature's
// environment partners in a 2x2 figure: occurrence barcodes (top left),
// the partner legend (top right), distance series (bottom left) and a
// horizontal distance histogram with whole-angstrom bins sharing the
// distance axis (bottom right). The name must be a single superfeature.
func EnvPartnerInteractions(d *dyno.Dynophore, name string, opts OverviewOptions) (*Figure, [][]*Axes, error) {
	if _, err := d.Superfeature(name); err != nil {
		return nil, nil, err
	}
	occ, err := d.EnvPartnerOccurrences(name)
	if err != nil {
		return nil, nil, err
	}
	occData, err := PrepareTable(occ, opts.Frames, true)
	if err != nil {
		return nil, nil, err
	}
	dist, err := d.EnvPartnerDistances(name)
	if err != nil {
		return nil, nil, err
	}
	distData, err := PrepareTable(dist, opts.Frames, false)
	if err != nil {
		return nil, nil, err
	}

	fig := NewFigure(ovWidth, ovHeight)
	fig.Title = name

	plotW := ovWidth - ovLeft - ovRight - ovWGap
	col0 := plotW * 3 / 4
	col1 := plotW - col0
	rowH := (ovHeight - ovTop - ovBottom - ovHGap) / 2
	axOcc := fig.AddAxes(Rect{X: ovLeft, Y: ovTop, W: float64(col0), H: float64(rowH)})
	axLegend := fig.AddAxes(Rect{X: float64(ovLeft + col0 + ovWGap), Y: ovTop, W: float64(col1), H: float64(rowH)})
	axLine := fig.AddAxes(Rect{X: ovLeft, Y: float64(ovTop + rowH + ovHGap), W: float64(col0), H: float64(rowH)})
	axHist := fig.AddAxes(Rect{X: float64(ovLeft + col0 + ovWGap), Y: float64(ovTop + rowH + ovHGap), W: float64(col1), H: float64(rowH)})

	x := frameValues(occData)
	legend := make([]LegendEntry, 0, occData.NumColumns())
	for k, col := range occData.Columns() {
		track, _ := occData.Column(col)
		c := seriesColor(k)
		axOcc.AddDots(col, x, track, c)
		legend = append(legend, LegendEntry{Label: col, Color: c})
	}
	axOcc.SetYTicks(blankTicks(occData.NumColumns()))
	axOcc.InvertY()
	axOcc.XLabel = "Frame index"
	setFrameSpan(axOcc, occData)

	axLegend.Hide()
	axLegend.SetLegend(legend)

	dx := frameValues(distData)
	for k, col := range distData.Columns() {
		series, _ := distData.Column(col)
		axLine.AddLine(col, dx, series, seriesColor(k), 1)
	}
	axLine.XLabel = "Frame index"
	axLine.YLabel = "Distance [Å]"
	setFrameSpan(axLine, distData)

	if _, hi, ok := distData.Bounds(); ok {
		edges := wholeEdges(math.Ceil(hi))
		for k, col := range distData.Columns() {
			series, _ := distData.Column(col)
			axHist.AddBars(col, edges, densityCounts(series, edges), seriesColor(k), 0.8, true)
		}
		// The histogram bins start at zero, so the shared distance
		// axis covers zero through the tallest bin edge.
		ylo, yhi := paddedRange(0, math.Ceil(hi), true)
		axLine.SetYLim(ylo, yhi)
		axHist.SetYLim(ylo, yhi)
	}
	axHist.SetXLim(0, 1)
	axHist.XLabel = "Frequency"

	return fig, [][]*Axes{{axOcc, axLegend}, {axLine, axHist}}, nil
}

// wholeEdges returns bin edges 0, 1, ..., hi.
func wholeEdges(hi float64) []float64 {
	n := int(hi)
	if n < 1 {
		n = 1
	}
	return floats.Span(make([]float64, n+1), 0, float64(n))
}

// densityCounts bins series like histCounts and normalizes the heights
// to fractions of the binned values.
func densityCounts(series, edges []float64) []float64 {
	heights := histCounts(series, edges)
	if total := floats.Sum(heights); total > 0 {
		floats.Scale(1/(total*(edges[1]-edges[0])), heights)
	}
	return heights
}

// blankTicks places unlabeled ticks at 0..n+1, marking track positions
// without repeating the partner names shown in the legend.
func blankTicks(n int) []Tick {
	ticks := make([]Tick, 0, n+2)
	for i := 0; i <= n+1; i++ {
		ticks = append(ticks, Tick{Value: float64(i), Label: ""})
	}
	return ticks
}
