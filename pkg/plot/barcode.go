package plot

import (
	"github.com/dynoviz/dynoplot/pkg/dyno"
)

const (
	barWidth  = 1000
	barLeft   = 260
	barRight  = 40
	barTop    = 40
	barBottom = 70
	barTrackH = 50
	occBlockH = 200
)

// BarcodeOptions configures the superfeature occurrence barcode.
type BarcodeOptions struct {
	// Names selects superfeatures; empty, or "all" anywhere in the
	// list, selects every superfeature.
	Names []string
	// Monochrome draws every track black instead of coloring by
	// feature type.
	Monochrome bool
	Frames     FrameSelection
}

// SuperfeatureOccurrences plots one barcode track per superfeature: a
// dot per frame in which the superfeature occurs. Tracks are stacked
// busiest first from the top.
func SuperfeatureOccurrences(d *dyno.Dynophore, opts BarcodeOptions) (*Figure, *Axes, error) {
	ids, _, err := resolveSelection(d, opts.Names)
	if err != nil {
		return nil, nil, err
	}
	occ, err := d.SuperfeatureOccurrences()
	if err != nil {
		return nil, nil, err
	}
	occ, err = occ.Select(ids...)
	if err != nil {
		return nil, nil, err
	}
	data, err := PrepareTable(occ, opts.Frames, true)
	if err != nil {
		return nil, nil, err
	}

	ncols := data.NumColumns()
	height := barTop + ncols*barTrackH + barBottom
	if height < 240 {
		height = 240
	}
	fig := NewFigure(barWidth, height)
	ax := fig.AddAxes(Rect{
		X: barLeft, Y: barTop,
		W: barWidth - barLeft - barRight,
		H: float64(height - barTop - barBottom),
	})

	x := frameValues(data)
	for _, name := range data.Columns() {
		track, _ := data.Column(name)
		c := colorBlack
		if !opts.Monochrome {
			if sf, err := d.Superfeature(name); err == nil {
				c = FeatureColor(sf.FeatureType)
			}
		}
		ax.AddDots(name, x, track, c)
	}

	ax.SetYTicks(trackTicks(data.Columns()))
	ax.InvertY()
	ax.XLabel = "Frame index"
	setFrameSpan(ax, data)
	return fig, ax, nil
}

// OccurrenceOptions configures the per-superfeature environment partner
// barcodes.
type OccurrenceOptions struct {
	// Names selects superfeatures; empty, or "all" anywhere in the
	// list, selects every superfeature.
	Names  []string
	Frames FrameSelection
}

// EnvPartnerOccurrences plots, for each selected superfeature, one
// barcode track per environment partner. Superfeatures without any
// partner occurrence in the selected frames keep an empty panel.
func EnvPartnerOccurrences(d *dyno.Dynophore, opts OccurrenceOptions) (*Figure, []*Axes, error) {
	ids, _, err := resolveSelection(d, opts.Names)
	if err != nil {
		return nil, nil, err
	}

	fig := NewFigure(barWidth, barTop+len(ids)*occBlockH)
	axes := make([]*Axes, 0, len(ids))
	for k, id := range ids {
		ax := fig.AddAxes(Rect{
			X: barLeft,
			Y: float64(barTop + k*occBlockH + 20),
			W: barWidth - barLeft - barRight,
			H: occBlockH - 90,
		})
		ax.Title = id
		axes = append(axes, ax)

		occ, err := d.EnvPartnerOccurrences(id)
		if err != nil {
			return nil, nil, err
		}
		data, err := PrepareTable(occ, opts.Frames, true)
		if err != nil {
			return nil, nil, err
		}
		if data.AllMissing() {
			// No partner contact in the selected frames.
			ax.SetYTicks([]Tick{{Value: 0, Label: ""}})
			continue
		}

		x := frameValues(data)
		for _, name := range data.Columns() {
			track, _ := data.Column(name)
			ax.AddDots(name, x, track, colorBlack)
		}
		ax.SetYTicks(trackTicks(data.Columns()))
		ax.InvertY()
		ax.XLabel = "Frame"
		setFrameSpan(ax, data)
	}
	return fig, axes, nil
}

// frameValues returns the table's frame labels as plot coordinates.
func frameValues(t dyno.Table) []float64 {
	frames := t.Frames()
	x := make([]float64, len(frames))
	for i, f := range frames {
		x[i] = float64(f)
	}
	return x
}

// trackTicks labels tracks 1..n with their column names, with an empty
// guard tick on each side.
func trackTicks(columns []string) []Tick {
	ticks := make([]Tick, 0, len(columns)+2)
	ticks = append(ticks, Tick{Value: 0, Label: ""})
	for i, name := range columns {
		ticks = append(ticks, Tick{Value: float64(i + 1), Label: name})
	}
	ticks = append(ticks, Tick{Value: float64(len(columns) + 1), Label: ""})
	return ticks
}

// setFrameSpan pins the horizontal range to the first and last selected
// frame labels.
func setFrameSpan(ax *Axes, t dyno.Table) {
	frames := t.Frames()
	if len(frames) == 0 {
		return
	}
	ax.SetXLim(float64(frames[0]), float64(frames[len(frames)-1]))
}
