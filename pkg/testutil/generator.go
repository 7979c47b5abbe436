// Package testutil provides deterministic dynophore fixture generators
// and shared test assertions.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// GeneratorConfig controls synthetic dynophore generation.
type GeneratorConfig struct {
	ID                 string
	NumFrames          int
	NumSuperfeatures   int
	PartnersPerFeature int
	// Seed makes the generated series reproducible.
	Seed int64
}

// DefaultConfig returns a small but non-trivial fixture configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		ID:                 "TEST-1",
		NumFrames:          100,
		NumSuperfeatures:   4,
		PartnersPerFeature: 3,
		Seed:               42,
	}
}

var featureTypes = []string{"H", "HBA", "HBD", "AR", "PI", "NI"}

var residueNames = []string{"ILE", "VAL", "LEU", "ASP", "LYS", "PHE", "GLN", "ALA"}

// Generate builds a deterministic synthetic dynophore. Occurrence series
// are Bernoulli draws with a per-feature rate, distances are drawn around
// a per-partner baseline and masked out on absent frames.
func Generate(cfg GeneratorConfig) (*dyno.Dynophore, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	atom := 4000

	superfeatures := make([]*dyno.SuperFeature, 0, cfg.NumSuperfeatures)
	for i := 0; i < cfg.NumSuperfeatures; i++ {
		featureType := featureTypes[i%len(featureTypes)]
		nAtoms := 1 + rng.Intn(3)
		atoms := make([]int, nAtoms)
		for j := range atoms {
			atom++
			atoms[j] = atom
		}
		sfID := fmt.Sprintf("%s%s", featureType, formatAtoms(atoms))

		rate := 0.2 + 0.7*rng.Float64()
		occurrences := bernoulli(rng, cfg.NumFrames, rate)

		partners := make([]*dyno.EnvPartner, 0, cfg.PartnersPerFeature)
		for k := 0; k < cfg.PartnersPerFeature; k++ {
			residue := residueNames[(i*cfg.PartnersPerFeature+k)%len(residueNames)]
			resNum := 10 + i*20 + k
			pAtom := 100 + i*50 + k*5
			pAtoms := []int{pAtom, pAtom + 1, pAtom + 2}
			pID := fmt.Sprintf("%s-%d-A%s", residue, resNum, formatAtoms(pAtoms))

			pOcc := make([]float64, cfg.NumFrames)
			dist := make([]float64, cfg.NumFrames)
			baseline := 2.5 + 3*rng.Float64()
			for f := 0; f < cfg.NumFrames; f++ {
				// Partners only occur on frames where the feature does.
				if occurrences[f] == 1 && rng.Float64() < rate {
					pOcc[f] = 1
					dist[f] = baseline + 0.5*rng.NormFloat64()
					if dist[f] < 0.5 {
						dist[f] = 0.5
					}
				} else {
					dist[f] = dyno.Missing
				}
			}
			p, err := dyno.NewEnvPartner(pID, pAtoms, pOcc, dist)
			if err != nil {
				return nil, err
			}
			partners = append(partners, p)
		}

		sf, err := dyno.NewSuperFeature(sfID, atoms, occurrences, partners)
		if err != nil {
			return nil, err
		}
		superfeatures = append(superfeatures, sf)
	}

	return dyno.NewDynophore(cfg.ID, superfeatures)
}

// MustGenerate is Generate for test setup paths where the config is known
// good.
func MustGenerate(cfg GeneratorConfig) *dyno.Dynophore {
	d, err := Generate(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// WriteJSONDir writes the dynophore as a DynophoreApp-style output
// directory containing <id>_dynophore.json, and returns the directory.
func WriteJSONDir(dir string, d *dyno.Dynophore) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	type jsonPartner struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		AtomNumbers []int     `json:"atom_numbers"`
		Occurrences []int     `json:"occurrences"`
		Distances   []float64 `json:"distances"`
	}
	type jsonSuperfeature struct {
		ID          string        `json:"id"`
		FeatureType string        `json:"feature_type"`
		AtomNumbers []int         `json:"atom_numbers"`
		Occurrences []int         `json:"occurrences"`
		EnvPartners []jsonPartner `json:"envpartners"`
	}

	doc := struct {
		ID            string             `json:"id"`
		Superfeatures []jsonSuperfeature `json:"superfeatures"`
	}{ID: d.ID}

	for _, sf := range d.Superfeatures {
		jsf := jsonSuperfeature{
			ID:          sf.ID,
			FeatureType: sf.FeatureType,
			AtomNumbers: sf.AtomNumbers,
			Occurrences: toInts(sf.Occurrences),
			EnvPartners: []jsonPartner{},
		}
		for _, p := range sf.EnvPartners {
			distances := make([]float64, len(p.Distances))
			for i, v := range p.Distances {
				if dyno.IsMissing(v) {
					// The upstream format writes -1 for unmeasured frames.
					distances[i] = -1
				} else {
					distances[i] = v
				}
			}
			jsf.EnvPartners = append(jsf.EnvPartners, jsonPartner{
				ID:          p.ID,
				Name:        p.ID,
				AtomNumbers: p.AtomNumbers,
				Occurrences: toInts(p.Occurrences),
				Distances:   distances,
			})
		}
		doc.Superfeatures = append(doc.Superfeatures, jsf)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, d.ID+"_dynophore.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return dir, nil
}

func bernoulli(rng *rand.Rand, n int, rate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if rng.Float64() < rate {
			out[i] = 1
		}
	}
	return out
}

func toInts(values []float64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}

func formatAtoms(atoms []int) string {
	s := "["
	for i, a := range atoms {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", a)
	}
	return s + "]"
}
