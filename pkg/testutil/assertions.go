package testutil

import (
	"math"
	"testing"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// AssertTableShape verifies a table's frame and column counts.
func AssertTableShape(t *testing.T, table dyno.Table, frames, columns int) {
	t.Helper()
	if table.NumFrames() != frames {
		t.Errorf("table has %d frames, want %d", table.NumFrames(), frames)
	}
	if table.NumColumns() != columns {
		t.Errorf("table has %d columns, want %d", table.NumColumns(), columns)
	}
}

// AssertBinary verifies every non-missing cell of a table is 0 or 1.
func AssertBinary(t *testing.T, table dyno.Table) {
	t.Helper()
	for i := 0; i < table.NumFrames(); i++ {
		for j := 0; j < table.NumColumns(); j++ {
			v := table.Value(i, j)
			if dyno.IsMissing(v) {
				continue
			}
			if v != 0 && v != 1 {
				t.Errorf("cell (%d, %d) = %v, want 0 or 1", i, j, v)
				return
			}
		}
	}
}

// AssertColumnsSortedBySum verifies columns are ordered by descending sum.
func AssertColumnsSortedBySum(t *testing.T, table dyno.Table) {
	t.Helper()
	for j := 1; j < table.NumColumns(); j++ {
		if table.ColumnSum(j) > table.ColumnSum(j-1) {
			t.Errorf("column %q (sum %v) sorted after %q (sum %v)",
				table.Columns()[j], table.ColumnSum(j),
				table.Columns()[j-1], table.ColumnSum(j-1))
		}
	}
}

// AssertFramesEqual verifies a table carries exactly the given frame
// labels.
func AssertFramesEqual(t *testing.T, table dyno.Table, want []int) {
	t.Helper()
	got := table.Frames()
	if len(got) != len(want) {
		t.Fatalf("table has %d frames, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("frame %d = %d, want %d", i, got[i], want[i])
		}
	}
}

// AssertClose verifies two floats agree within tolerance.
func AssertClose(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("got %v, want %v (tolerance %v)", got, want, tol)
	}
}
