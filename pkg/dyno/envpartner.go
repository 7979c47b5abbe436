package dyno

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EnvPartner is one environment partner of a superfeature: a binding
// pocket residue the superfeature interacts with across the trajectory.
type EnvPartner struct {
	// ID names the partner, e.g. "ILE-10-A[169,171,172]".
	ID string
	// ResidueName, ResidueNumber and Chain identify the partner residue.
	// They are derived from the ID.
	ResidueName   string
	ResidueNumber int
	Chain         string
	// AtomNumbers lists the topology atom serials involved in the contact.
	AtomNumbers []int
	// Occurrences holds one presence flag per trajectory frame, 0 or 1.
	Occurrences []float64
	// Distances holds one interaction distance per frame, in angstrom.
	// Frames without a measured distance carry the Missing marker.
	Distances []float64
}

// NewEnvPartner builds an environment partner from per-frame series.
// Occurrences and distances must be of the same length.
func NewEnvPartner(id string, atomNumbers []int, occurrences, distances []float64) (*EnvPartner, error) {
	if len(occurrences) != len(distances) {
		return nil, fmt.Errorf("env partner %s: %d occurrence flags but %d distances", id, len(occurrences), len(distances))
	}
	name, number, chain, err := splitPartnerID(id)
	if err != nil {
		return nil, err
	}
	return &EnvPartner{
		ID:            id,
		ResidueName:   name,
		ResidueNumber: number,
		Chain:         chain,
		AtomNumbers:   atomNumbers,
		Occurrences:   occurrences,
		Distances:     distances,
	}, nil
}

// splitPartnerID breaks "ILE-10-A[169,171,172]" into residue name,
// residue number and chain.
func splitPartnerID(id string) (name string, number int, chain string, err error) {
	head, _, _ := strings.Cut(id, "[")
	parts := strings.Split(head, "-")
	if len(parts) != 3 {
		return "", 0, "", fmt.Errorf("env partner id %q: want NAME-NUMBER-CHAIN before atom list", id)
	}
	number, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", fmt.Errorf("env partner id %q: residue number: %w", id, err)
	}
	return parts[0], number, parts[2], nil
}

// NumFrames returns the number of trajectory frames covered.
func (p *EnvPartner) NumFrames() int { return len(p.Occurrences) }

// Count returns the number of frames in which the interaction occurs.
func (p *EnvPartner) Count() int {
	n := 0
	for _, v := range p.Occurrences {
		if v == 1 {
			n++
		}
	}
	return n
}

// Frequency returns the percentage of frames in which the interaction
// occurs, rounded to two decimals.
func (p *EnvPartner) Frequency() float64 {
	if p.NumFrames() == 0 {
		return 0
	}
	return round2(float64(p.Count()) / float64(p.NumFrames()) * 100)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
