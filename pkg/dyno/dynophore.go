// Package dyno models dynophore data: pharmacophoric superfeatures
// observed across a molecular dynamics trajectory, the binding pocket
// partners they interact with, and the occurrence and distance tables
// derived from both.
package dyno

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownSuperfeature is returned when a superfeature is addressed by
// a name the dynophore does not contain.
var ErrUnknownSuperfeature = errors.New("unknown superfeature")

// Dynophore is a dynamic pharmacophore: the full set of superfeatures
// tracked over one ligand-target trajectory.
type Dynophore struct {
	// ID names the dynophore, e.g. "1KE7-1".
	ID string
	// Superfeatures holds the features sorted by ID.
	Superfeatures []*SuperFeature
	// Clouds maps superfeature IDs to their 3D point clouds. The map is
	// nil unless cloud data was loaded alongside the statistics.
	Clouds map[string]*FeatureCloud
}

// NewDynophore builds a dynophore, sorts the superfeatures by ID and
// checks that all of them cover the same number of frames.
func NewDynophore(id string, superfeatures []*SuperFeature) (*Dynophore, error) {
	if len(superfeatures) == 0 {
		return nil, fmt.Errorf("dynophore %s: no superfeatures", id)
	}
	sorted := slices.Clone(superfeatures)
	slices.SortStableFunc(sorted, func(a, b *SuperFeature) int {
		return strings.Compare(a.ID, b.ID)
	})
	n := sorted[0].NumFrames()
	for _, sf := range sorted[1:] {
		if sf.NumFrames() != n {
			return nil, fmt.Errorf("dynophore %s: superfeature %s covers %d frames, want %d",
				id, sf.ID, sf.NumFrames(), n)
		}
	}
	return &Dynophore{ID: id, Superfeatures: sorted}, nil
}

// NumFrames returns the number of trajectory frames covered.
func (d *Dynophore) NumFrames() int {
	if len(d.Superfeatures) == 0 {
		return 0
	}
	return d.Superfeatures[0].NumFrames()
}

// NumSuperfeatures returns the number of superfeatures.
func (d *Dynophore) NumSuperfeatures() int { return len(d.Superfeatures) }

// SuperfeatureIDs returns the superfeature identifiers in storage order.
func (d *Dynophore) SuperfeatureIDs() []string {
	ids := make([]string, len(d.Superfeatures))
	for i, sf := range d.Superfeatures {
		ids[i] = sf.ID
	}
	return ids
}

// FeatureTypes returns the distinct feature types present, sorted.
func (d *Dynophore) FeatureTypes() []string {
	seen := make(map[string]struct{})
	var types []string
	for _, sf := range d.Superfeatures {
		if _, ok := seen[sf.FeatureType]; ok {
			continue
		}
		seen[sf.FeatureType] = struct{}{}
		types = append(types, sf.FeatureType)
	}
	slices.Sort(types)
	return types
}

// HasSuperfeature reports whether the dynophore contains the named
// superfeature.
func (d *Dynophore) HasSuperfeature(id string) bool {
	_, err := d.Superfeature(id)
	return err == nil
}

// Superfeature returns the named superfeature. The error wraps
// ErrUnknownSuperfeature when the name does not match.
func (d *Dynophore) Superfeature(id string) (*SuperFeature, error) {
	for _, sf := range d.Superfeatures {
		if sf.ID == id {
			return sf, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (valid names: %s)",
		ErrUnknownSuperfeature, id, strings.Join(d.SuperfeatureIDs(), ", "))
}

// SuperfeatureOccurrences returns the per-frame presence flags of all
// superfeatures as a table with one column per superfeature, columns
// sorted by superfeature ID.
func (d *Dynophore) SuperfeatureOccurrences() (Table, error) {
	n := d.NumFrames()
	frames := make([]int, n)
	for i := range frames {
		frames[i] = i
	}
	values := make([][]float64, n)
	for i := range values {
		row := make([]float64, len(d.Superfeatures))
		for j, sf := range d.Superfeatures {
			row[j] = sf.Occurrences[i]
		}
		values[i] = row
	}
	t, err := NewTable(d.SuperfeatureIDs(), frames, values)
	if err != nil {
		return Table{}, fmt.Errorf("dynophore %s: %w", d.ID, err)
	}
	return t, nil
}

// EnvPartnerOccurrences returns the partner presence table of the named
// superfeature.
func (d *Dynophore) EnvPartnerOccurrences(id string) (Table, error) {
	sf, err := d.Superfeature(id)
	if err != nil {
		return Table{}, err
	}
	return sf.EnvPartnerOccurrences()
}

// EnvPartnerDistances returns the partner distance table of the named
// superfeature.
func (d *Dynophore) EnvPartnerDistances(id string) (Table, error) {
	sf, err := d.Superfeature(id)
	if err != nil {
		return Table{}, err
	}
	return sf.EnvPartnerDistances()
}

// Count returns the occurrence counts as a matrix with one column per
// superfeature and one row per environment partner, plus an "any" row
// counting the frames in which the superfeature occurs at all. Partners
// a superfeature never interacts with hold zero.
func (d *Dynophore) Count() (Matrix, error) {
	rows := d.countRows()
	columns := d.SuperfeatureIDs()
	values := make([][]float64, len(rows))
	for i := range values {
		values[i] = make([]float64, len(columns))
	}
	rowIndex := make(map[string]int, len(rows))
	for i, name := range rows {
		rowIndex[name] = i
	}
	for j, sf := range d.Superfeatures {
		values[rowIndex["any"]][j] = float64(sf.Count())
		for _, p := range sf.EnvPartners {
			values[rowIndex[p.ID]][j] = float64(p.Count())
		}
	}
	return NewMatrix(rows, columns, values)
}

// Frequency returns Count scaled to percent of covered frames, each cell
// rounded to two decimals.
func (d *Dynophore) Frequency() (Matrix, error) {
	count, err := d.Count()
	if err != nil {
		return Matrix{}, err
	}
	n := d.NumFrames()
	if n == 0 {
		return count, nil
	}
	values := make([][]float64, count.NumRows())
	for i := range values {
		row := make([]float64, count.NumColumns())
		for j := range row {
			row[j] = round2(count.Value(i, j) / float64(n) * 100)
		}
		values[i] = row
	}
	return NewMatrix(count.Rows(), count.Columns(), values)
}

// countRows returns "any" followed by the union of all partner IDs,
// sorted.
func (d *Dynophore) countRows() []string {
	seen := make(map[string]struct{})
	var partners []string
	for _, sf := range d.Superfeatures {
		for _, p := range sf.EnvPartners {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			partners = append(partners, p.ID)
		}
	}
	slices.Sort(partners)
	return append([]string{"any"}, partners...)
}
