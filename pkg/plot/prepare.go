package plot

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// LastFrame selects frames through the end of the trajectory.
const LastFrame = -1

// FrameSelection picks a positional range of trajectory frames: every
// Step-th frame from Start through End inclusive. End is capped at the
// last frame; LastFrame means the full tail. The zero value selects all
// frames.
type FrameSelection struct {
	Start int
	End   int
	Step  int
}

// AllFrames selects every frame.
func AllFrames() FrameSelection {
	return FrameSelection{Start: 0, End: LastFrame, Step: 1}
}

// indices expands the selection against a table of n frames. A Start
// past the last frame yields an empty selection rather than an error.
func (s FrameSelection) indices(n int) ([]int, error) {
	if s == (FrameSelection{}) {
		s = AllFrames()
	}
	if s.Step < 1 {
		return nil, fmt.Errorf("frame step %d: must be at least 1", s.Step)
	}
	if s.Start < 0 {
		return nil, fmt.Errorf("frame start %d: must not be negative", s.Start)
	}
	if s.End != LastFrame && s.End < s.Start {
		return nil, fmt.Errorf("frame range %d..%d: end before start", s.Start, s.End)
	}
	end := s.End
	if end == LastFrame || end > n-1 {
		end = n - 1
	}
	var idx []int
	for i := s.Start; i <= end; i += s.Step {
		idx = append(idx, i)
	}
	return idx, nil
}

// PrepareTable shapes a per-frame table for plotting. Columns are
// reordered by descending column sum (ties keep their relative order),
// rows are restricted to the selected frames, and, for occurrence
// tables, values are recoded per column so that column k (counting the
// busiest as 1) carries k where the interaction occurs and a missing
// value where it does not. That recoding gives each column its own
// horizontal track in barcode plots. Distance tables pass through
// unrecoded.
func PrepareTable(t dyno.Table, sel FrameSelection, occurrences bool) (dyno.Table, error) {
	order := make([]int, t.NumColumns())
	for j := range order {
		order[j] = j
	}
	sums := make([]float64, t.NumColumns())
	for j := range sums {
		sums[j] = t.ColumnSum(j)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(sums[b], sums[a])
	})

	rows, err := sel.indices(t.NumFrames())
	if err != nil {
		return dyno.Table{}, err
	}

	columns := make([]string, len(order))
	allColumns := t.Columns()
	for k, j := range order {
		columns[k] = allColumns[j]
	}
	frames := make([]int, len(rows))
	values := make([][]float64, len(rows))
	allFrames := t.Frames()
	for r, i := range rows {
		frames[r] = allFrames[i]
		row := make([]float64, len(order))
		for k, j := range order {
			v := t.Value(i, j)
			if occurrences {
				switch v {
				case 1:
					v = float64(k + 1)
				case 0:
					v = dyno.Missing
				}
			}
			row[k] = v
		}
		values[r] = row
	}
	return dyno.NewTable(columns, frames, values)
}

// ResolveNames expands a superfeature name selection. No names, or the
// name "all" anywhere in the list, selects every superfeature; anything
// else is validated and kept in the given order.
func ResolveNames(d *dyno.Dynophore, names ...string) ([]string, error) {
	ids, _, err := resolveSelection(d, names)
	return ids, err
}

func resolveSelection(d *dyno.Dynophore, names []string) (ids []string, all bool, err error) {
	if len(names) == 0 || slices.Contains(names, "all") {
		return d.SuperfeatureIDs(), true, nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, err := d.Superfeature(name); err != nil {
			return nil, false, err
		}
		out = append(out, name)
	}
	return out, false, nil
}
