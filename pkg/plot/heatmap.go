package plot

import (
	"cmp"
	"slices"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

const (
	heatCellW  = 64
	heatCellH  = 22
	heatLeft   = 230
	heatRight  = 130
	heatTop    = 40
	heatBottom = 250
)

// SuperfeaturesVsEnvPartners plots the interaction frequency of each
// superfeature with each of its environment partners as a heatmap. With
// no names, or the name "all", every superfeature is shown with columns
// ordered busiest first; an explicit selection keeps the given column
// order and drops partner rows that never interact with the selection.
func SuperfeaturesVsEnvPartners(d *dyno.Dynophore, names ...string) (*Figure, *Axes, error) {
	ids, all, err := resolveSelection(d, names)
	if err != nil {
		return nil, nil, err
	}
	freq, err := d.Frequency()
	if err != nil {
		return nil, nil, err
	}

	if all {
		ids = columnsByAnyDesc(freq)
	}
	data, err := freq.Select(ids...)
	if err != nil {
		return nil, nil, err
	}
	if !all {
		data = data.DropRows(zeroRows(data)...)
	}

	nrows, ncols := data.NumRows(), data.NumColumns()
	gridW := float64(ncols) * heatCellW
	gridH := float64(nrows) * heatCellH
	width := heatLeft + int(gridW) + heatRight
	height := heatTop + int(gridH) + heatBottom
	if width < 640 {
		width = 640
	}
	if height < 480 {
		height = 480
	}

	fig := NewFigure(width, height)
	ax := fig.AddAxes(Rect{X: heatLeft, Y: heatTop, W: gridW, H: gridH})

	cells := make([][]float64, nrows)
	for i := range cells {
		row := make([]float64, ncols)
		for j := range row {
			row[j] = data.Value(i, j)
		}
		cells[i] = row
	}
	ax.AddHeatGrid(data.Rows(), data.Columns(), cells, 0, 100, "Occurrence frequency [%]")

	ax.SetXLim(0, float64(ncols))
	ax.SetYLim(0, float64(nrows))
	ax.InvertY()
	ax.SetXTicks(centeredTicks(data.Columns()))
	ax.SetYTicks(centeredTicks(data.Rows()))
	ax.RotateXTickLabels()
	return fig, ax, nil
}

// columnsByAnyDesc orders the matrix columns by their overall
// interaction frequency, busiest first.
func columnsByAnyDesc(m dyno.Matrix) []string {
	cols := m.Columns()
	anyRow, ok := m.Row("any")
	if !ok {
		return cols
	}
	order := make([]int, len(cols))
	for j := range order {
		order[j] = j
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(anyRow[b], anyRow[a])
	})
	names := make([]string, len(cols))
	for k, j := range order {
		names[k] = cols[j]
	}
	return names
}

// zeroRows lists the rows of m holding only zeros.
func zeroRows(m dyno.Matrix) []int {
	var drop []int
	for i := 0; i < m.NumRows(); i++ {
		zero := true
		for j := 0; j < m.NumColumns(); j++ {
			if m.Value(i, j) != 0 {
				zero = false
				break
			}
		}
		if zero {
			drop = append(drop, i)
		}
	}
	return drop
}

// centeredTicks places one tick per category at the cell center.
func centeredTicks(labels []string) []Tick {
	ticks := make([]Tick, len(labels))
	for i, label := range labels {
		ticks[i] = Tick{Value: float64(i) + 0.5, Label: label}
	}
	return ticks
}
