package dyno

import (
	"fmt"
	"strconv"
	"strings"
)

// SuperFeature is one pharmacophoric feature of the dynophore, tracked
// across all trajectory frames together with its environment partners.
type SuperFeature struct {
	// ID names the superfeature, e.g. "H[4599,4602,4601,4608,4609,4600]".
	ID string
	// FeatureType is the pharmacophoric feature class, the part of the ID
	// before the atom list, e.g. "H", "HBA", "AR".
	FeatureType string
	// AtomNumbers lists the ligand atom serials the feature is built from.
	AtomNumbers []int
	// Occurrences holds one presence flag per trajectory frame, 0 or 1.
	Occurrences []float64
	// EnvPartners lists the environment partners in source order.
	EnvPartners []*EnvPartner
}

// NewSuperFeature builds a superfeature and checks that every environment
// partner covers the same number of frames as the feature itself.
func NewSuperFeature(id string, atomNumbers []int, occurrences []float64, envPartners []*EnvPartner) (*SuperFeature, error) {
	featureType, _, _ := strings.Cut(id, "[")
	for _, p := range envPartners {
		if p.NumFrames() != len(occurrences) {
			return nil, fmt.Errorf("superfeature %s: partner %s covers %d frames, want %d",
				id, p.ID, p.NumFrames(), len(occurrences))
		}
	}
	return &SuperFeature{
		ID:          id,
		FeatureType: featureType,
		AtomNumbers: atomNumbers,
		Occurrences: occurrences,
		EnvPartners: envPartners,
	}, nil
}

// ParseAtomNumbers extracts the atom serial list from a superfeature or
// environment partner ID such as "HBA[4619]".
func ParseAtomNumbers(id string) ([]int, error) {
	_, tail, found := strings.Cut(id, "[")
	if !found || !strings.HasSuffix(tail, "]") {
		return nil, fmt.Errorf("id %q: missing atom list", id)
	}
	fields := strings.Split(strings.TrimSuffix(tail, "]"), ",")
	atoms := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("id %q: atom serial %q: %w", id, f, err)
		}
		atoms[i] = n
	}
	return atoms, nil
}

// NumFrames returns the number of trajectory frames covered.
func (s *SuperFeature) NumFrames() int { return len(s.Occurrences) }

// Count returns the number of frames in which the superfeature occurs.
func (s *SuperFeature) Count() int {
	n := 0
	for _, v := range s.Occurrences {
		if v == 1 {
			n++
		}
	}
	return n
}

// Frequency returns the percentage of frames in which the superfeature
// occurs, rounded to two decimals.
func (s *SuperFeature) Frequency() float64 {
	if s.NumFrames() == 0 {
		return 0
	}
	return round2(float64(s.Count()) / float64(s.NumFrames()) * 100)
}

// PartnerIDs returns the environment partner identifiers in source order.
func (s *SuperFeature) PartnerIDs() []string {
	ids := make([]string, len(s.EnvPartners))
	for i, p := range s.EnvPartners {
		ids[i] = p.ID
	}
	return ids
}

// Partner returns the environment partner with the given ID.
func (s *SuperFeature) Partner(id string) (*EnvPartner, bool) {
	for _, p := range s.EnvPartners {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// EnvPartnerOccurrences returns the partner presence flags as a table
// with one column per partner and one row per frame.
func (s *SuperFeature) EnvPartnerOccurrences() (Table, error) {
	return s.partnerTable(func(p *EnvPartner) []float64 { return p.Occurrences })
}

// EnvPartnerDistances returns the partner interaction distances as a
// table with one column per partner and one row per frame.
func (s *SuperFeature) EnvPartnerDistances() (Table, error) {
	return s.partnerTable(func(p *EnvPartner) []float64 { return p.Distances })
}

func (s *SuperFeature) partnerTable(series func(*EnvPartner) []float64) (Table, error) {
	n := s.NumFrames()
	for _, p := range s.EnvPartners {
		if len(series(p)) != n {
			return Table{}, fmt.Errorf("superfeature %s: partner %s covers %d frames, want %d",
				s.ID, p.ID, len(series(p)), n)
		}
	}
	frames := make([]int, n)
	for i := range frames {
		frames[i] = i
	}
	values := make([][]float64, n)
	for i := range values {
		row := make([]float64, len(s.EnvPartners))
		for j, p := range s.EnvPartners {
			row[j] = series(p)[i]
		}
		values[i] = row
	}
	t, err := NewTable(s.PartnerIDs(), frames, values)
	if err != nil {
		return Table{}, fmt.Errorf("superfeature %s: %w", s.ID, err)
	}
	return t, nil
}
