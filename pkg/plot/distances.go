package plot

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// Kind selects how environment partner distances are drawn.
type Kind string

const (
	// KindLine draws one distance series per partner over the frames.
	KindLine Kind = "line"
	// KindHist draws overlaid distance histograms with 0.1 Å bins.
	KindHist Kind = "hist"
)

// ErrUnknownKind reports a distance plot kind that is not defined.
var ErrUnknownKind = errors.New("unknown plot kind")

const (
	distBlockH   = 400
	distBinWidth = 0.1
)

// DistanceOptions configures the environment partner distance plots.
type DistanceOptions struct {
	// Names selects superfeatures; empty, or "all" anywhere in the
	// list, selects every superfeature.
	Names  []string
	Frames FrameSelection
}

// EnvPartnerDistances plots, for each selected superfeature, the
// distances between the superfeature and its environment partners,
// either per frame (KindLine) or binned (KindHist).
func EnvPartnerDistances(d *dyno.Dynophore, kind Kind, opts DistanceOptions) (*Figure, []*Axes, error) {
	switch kind {
	case KindLine, KindHist:
	default:
		return nil, nil, fmt.Errorf("%w %q: valid kinds are %q and %q",
			ErrUnknownKind, string(kind), KindLine, KindHist)
	}
	ids, _, err := resolveSelection(d, opts.Names)
	if err != nil {
		return nil, nil, err
	}

	fig := NewFigure(barWidth, barTop+len(ids)*distBlockH)
	axes := make([]*Axes, 0, len(ids))
	for k, id := range ids {
		ax := fig.AddAxes(Rect{
			X: barLeft,
			Y: float64(barTop + k*distBlockH + 20),
			W: barWidth - barLeft - barRight,
			H: distBlockH - 90,
		})
		ax.Title = id
		axes = append(axes, ax)

		dist, err := d.EnvPartnerDistances(id)
		if err != nil {
			return nil, nil, err
		}
		data, err := PrepareTable(dist, opts.Frames, false)
		if err != nil {
			return nil, nil, err
		}

		switch kind {
		case KindLine:
			plotDistanceLines(ax, data)
		case KindHist:
			plotDistanceHist(ax, data)
		}
	}
	return fig, axes, nil
}

func plotDistanceLines(ax *Axes, data dyno.Table) {
	x := frameValues(data)
	legend := make([]LegendEntry, 0, data.NumColumns())
	for k, name := range data.Columns() {
		series, _ := data.Column(name)
		c := seriesColor(k)
		ax.AddLine(name, x, series, c, 1.5)
		legend = append(legend, LegendEntry{Label: name, Color: c})
	}
	ax.SetLegend(legend)
	ax.SetXLim(0, float64(data.NumFrames()))
	ax.XLabel = "Frame index"
	ax.YLabel = "Distance [Å]"
}

func plotDistanceHist(ax *Axes, data dyno.Table) {
	lo, hi, ok := data.Bounds()
	if !ok {
		// No measured distances to bin.
		ax.SetYTicks([]Tick{{Value: 0, Label: ""}})
		return
	}
	lo, hi = math.Floor(lo), math.Ceil(hi)
	if hi <= lo {
		hi = lo + 1
	}
	edges := histEdges(lo, hi, distBinWidth)
	legend := make([]LegendEntry, 0, data.NumColumns())
	for k, name := range data.Columns() {
		series, _ := data.Column(name)
		c := seriesColor(k)
		ax.AddBars(name, edges, histCounts(series, edges), c, 0.8, false)
		legend = append(legend, LegendEntry{Label: name, Color: c})
	}
	ax.SetLegend(legend)
	ax.SetXLim(lo, hi)
	ax.XLabel = "Distance [Å]"
	ax.YLabel = "Frequency"
}

// histEdges covers [lo, hi) with equal-width bin edges; the end point
// itself is excluded, so values in the final part-bin are not counted.
func histEdges(lo, hi, width float64) []float64 {
	n := int(math.Ceil((hi - lo) / width * (1 - 1e-12)))
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, lo+width*float64(n-1))
}

// histCounts bins the finite values of series into the given edges. The
// final bin includes its right edge; values outside the edges are
// dropped. stat.Histogram uses half-open bins and rejects values at the
// last edge, so those are counted separately.
func histCounts(series, edges []float64) []float64 {
	bins := len(edges) - 1
	if bins < 1 {
		return nil
	}
	last := edges[len(edges)-1]
	kept := make([]float64, 0, len(series))
	atLast := 0.0
	for _, v := range series {
		switch {
		case dyno.IsMissing(v) || v < edges[0] || v > last:
		case v == last:
			atLast++
		default:
			kept = append(kept, v)
		}
	}
	sort.Float64s(kept)
	heights := stat.Histogram(make([]float64, bins), edges, kept, nil)
	heights[bins-1] += atLast
	return heights
}
