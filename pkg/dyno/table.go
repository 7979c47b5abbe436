package dyno

import (
	"fmt"
	"math"
	"slices"
)

// Missing marks the absence of a value in a table cell. Occurrence cells
// recoded away by plotting helpers and distances that were never measured
// both carry it.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Table is a frames-by-columns matrix of float64 values. Rows are labeled
// with trajectory frame numbers, columns with superfeature or environment
// partner identifiers. Tables are built once and read afterwards; callers
// must not modify slices handed to NewTable or returned by accessors.
type Table struct {
	columns []string
	frames  []int
	values  [][]float64 // row-major, values[frame][column]
}

// NewTable builds a table from row-major values. frames must hold one
// label per row and every row must hold one value per column.
func NewTable(columns []string, frames []int, values [][]float64) (Table, error) {
	if len(values) != len(frames) {
		return Table{}, fmt.Errorf("table: %d rows but %d frame labels", len(values), len(frames))
	}
	for i, row := range values {
		if len(row) != len(columns) {
			return Table{}, fmt.Errorf("table: row %d holds %d values, want %d", i, len(row), len(columns))
		}
	}
	seen := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		if _, dup := seen[name]; dup {
			return Table{}, fmt.Errorf("table: duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}
	return Table{columns: columns, frames: frames, values: values}, nil
}

// NumFrames returns the number of rows.
func (t Table) NumFrames() int { return len(t.values) }

// NumColumns returns the number of columns.
func (t Table) NumColumns() int { return len(t.columns) }

// Empty reports whether the table holds no cells.
func (t Table) Empty() bool { return len(t.values) == 0 || len(t.columns) == 0 }

// Columns returns the column names in table order.
func (t Table) Columns() []string { return slices.Clone(t.columns) }

// Frames returns the frame labels in table order.
func (t Table) Frames() []int { return slices.Clone(t.frames) }

// Frame returns the frame label of row i.
func (t Table) Frame(i int) int { return t.frames[i] }

// Value returns the cell at row i, column j.
func (t Table) Value(i, j int) float64 { return t.values[i][j] }

// ColumnIndex returns the position of the named column.
func (t Table) ColumnIndex(name string) (int, bool) {
	i := slices.Index(t.columns, name)
	return i, i >= 0
}

// Column returns a copy of the named column's values.
func (t Table) Column(name string) ([]float64, bool) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	col := make([]float64, len(t.values))
	for i, row := range t.values {
		col[i] = row[j]
	}
	return col, true
}

// ColumnSum returns the sum of column j, skipping missing cells.
func (t Table) ColumnSum(j int) float64 {
	var sum float64
	for _, row := range t.values {
		if v := row[j]; !IsMissing(v) {
			sum += v
		}
	}
	return sum
}

// Select returns a new table holding the named columns in the given order.
// The frame labels are shared with the receiver.
func (t Table) Select(names ...string) (Table, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j, ok := t.ColumnIndex(name)
		if !ok {
			return Table{}, fmt.Errorf("table has no column %q", name)
		}
		idx[k] = j
	}
	values := make([][]float64, len(t.values))
	for i, row := range t.values {
		sub := make([]float64, len(idx))
		for k, j := range idx {
			sub[k] = row[j]
		}
		values[i] = sub
	}
	return Table{columns: slices.Clone(names), frames: t.frames, values: values}, nil
}

// Bounds returns the smallest and largest non-missing values in the table.
// ok is false when every cell is missing or the table is empty.
func (t Table) Bounds() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range t.values {
		for _, v := range row {
			if IsMissing(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// AllMissing reports whether the table holds no non-missing values.
// An empty table counts as all missing.
func (t Table) AllMissing() bool {
	_, _, ok := t.Bounds()
	return !ok
}

// Matrix is a summary table with named rows, such as the count and
// frequency tables derived from a dynophore. Like Table it is read-only
// after construction.
type Matrix struct {
	rows    []string
	columns []string
	values  [][]float64 // row-major, values[row][column]
}

// NewMatrix builds a matrix from row-major values.
func NewMatrix(rows, columns []string, values [][]float64) (Matrix, error) {
	if len(values) != len(rows) {
		return Matrix{}, fmt.Errorf("matrix: %d value rows but %d row labels", len(values), len(rows))
	}
	for i, row := range values {
		if len(row) != len(columns) {
			return Matrix{}, fmt.Errorf("matrix: row %d holds %d values, want %d", i, len(row), len(columns))
		}
	}
	return Matrix{rows: rows, columns: columns, values: values}, nil
}

// NumRows returns the number of rows.
func (m Matrix) NumRows() int { return len(m.rows) }

// NumColumns returns the number of columns.
func (m Matrix) NumColumns() int { return len(m.columns) }

// Rows returns the row labels in matrix order.
func (m Matrix) Rows() []string { return slices.Clone(m.rows) }

// Columns returns the column names in matrix order.
func (m Matrix) Columns() []string { return slices.Clone(m.columns) }

// Value returns the cell at row i, column j.
func (m Matrix) Value(i, j int) float64 { return m.values[i][j] }

// Row returns a copy of the named row's values.
func (m Matrix) Row(name string) ([]float64, bool) {
	i := slices.Index(m.rows, name)
	if i < 0 {
		return nil, false
	}
	return slices.Clone(m.values[i]), true
}

// Select returns a new matrix holding the named columns in the given order.
func (m Matrix) Select(names ...string) (Matrix, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j := slices.Index(m.columns, name)
		if j < 0 {
			return Matrix{}, fmt.Errorf("matrix has no column %q", name)
		}
		idx[k] = j
	}
	values := make([][]float64, len(m.values))
	for i, row := range m.values {
		sub := make([]float64, len(idx))
		for k, j := range idx {
			sub[k] = row[j]
		}
		values[i] = sub
	}
	return Matrix{rows: m.rows, columns: slices.Clone(names), values: values}, nil
}

// DropRows returns a new matrix without the rows whose index is listed in
// drop. Indexes outside the matrix are ignored.
func (m Matrix) DropRows(drop ...int) Matrix {
	skip := make(map[int]struct{}, len(drop))
	for _, i := range drop {
		skip[i] = struct{}{}
	}
	var rows []string
	var values [][]float64
	for i, row := range m.values {
		if _, gone := skip[i]; gone {
			continue
		}
		rows = append(rows, m.rows[i])
		values = append(values, row)
	}
	return Matrix{rows: rows, columns: m.columns, values: values}
}
