package loader

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// jsonDynophore mirrors the DynophoreApp JSON statistics file.
type jsonDynophore struct {
	ID            string             `json:"id"`
	Superfeatures []jsonSuperfeature `json:"superfeatures"`
}

type jsonSuperfeature struct {
	ID          string           `json:"id"`
	FeatureType string           `json:"feature_type"`
	AtomNumbers []int            `json:"atom_numbers"`
	Occurrences []float64        `json:"occurrences"`
	EnvPartners []jsonEnvPartner `json:"envpartners"`
}

type jsonEnvPartner struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AtomNumbers []int     `json:"atom_numbers"`
	Occurrences []float64 `json:"occurrences"`
	Distances   []float64 `json:"distances"`
}

// ParseJSON builds a dynophore from the JSON statistics document.
// Non-positive distances mark frames without a measured distance and are
// stored as missing.
func ParseJSON(data []byte) (*dyno.Dynophore, error) {
	var doc jsonDynophore
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dynophore json: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("parse dynophore json: missing id")
	}

	superfeatures := make([]*dyno.SuperFeature, 0, len(doc.Superfeatures))
	for _, jsf := range doc.Superfeatures {
		partners := make([]*dyno.EnvPartner, 0, len(jsf.EnvPartners))
		for _, jp := range jsf.EnvPartners {
			distances := make([]float64, len(jp.Distances))
			for i, v := range jp.Distances {
				if v <= 0 {
					distances[i] = dyno.Missing
				} else {
					distances[i] = v
				}
			}
			p, err := dyno.NewEnvPartner(partnerID(jp), jp.AtomNumbers, jp.Occurrences, distances)
			if err != nil {
				return nil, fmt.Errorf("superfeature %s: %w", jsf.ID, err)
			}
			partners = append(partners, p)
		}
		sortPartnersByFirstAtom(partners)

		sf, err := dyno.NewSuperFeature(jsf.ID, jsf.AtomNumbers, jsf.Occurrences, partners)
		if err != nil {
			return nil, err
		}
		superfeatures = append(superfeatures, sf)
	}

	return dyno.NewDynophore(doc.ID, superfeatures)
}

// partnerID returns the partner's full ID. Older exports carry only the
// residue triple in "name" and the atom list separately.
func partnerID(jp jsonEnvPartner) string {
	if strings.Contains(jp.ID, "[") {
		return jp.ID
	}
	name := jp.ID
	if name == "" {
		name = jp.Name
	}
	atoms := make([]string, len(jp.AtomNumbers))
	for i, a := range jp.AtomNumbers {
		atoms[i] = fmt.Sprintf("%d", a)
	}
	return fmt.Sprintf("%s[%s]", name, strings.Join(atoms, ","))
}

// sortPartnersByFirstAtom orders partners by their first involved atom
// serial, the order the partner tables use.
func sortPartnersByFirstAtom(partners []*dyno.EnvPartner) {
	slices.SortStableFunc(partners, func(a, b *dyno.EnvPartner) int {
		return cmp.Compare(firstAtom(a), firstAtom(b))
	})
}

func firstAtom(p *dyno.EnvPartner) int {
	if len(p.AtomNumbers) == 0 {
		return 0
	}
	return p.AtomNumbers[0]
}
