package loader

import (
	"encoding/xml"
	"fmt"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// The PML file is LigandScout's pharmacophore XML. Only the featureCloud
// elements matter here; everything else is skipped.
type pmlDocument struct {
	FeatureClouds []pmlFeatureCloud `xml:"featureCloud"`
}

type pmlFeatureCloud struct {
	Name             string     `xml:"name,attr"`
	InvolvedAtoms    string     `xml:"involvedAtomSerials,attr"`
	Position         *pmlPoint  `xml:"position"`
	AdditionalPoints []pmlPoint `xml:"additionalPoint"`
}

type pmlPoint struct {
	X float64 `xml:"x3,attr"`
	Y float64 `xml:"y3,attr"`
	Z float64 `xml:"z3,attr"`
}

// ParsePML extracts the per-superfeature point clouds from a PML
// document, keyed by superfeature ID (feature name plus involved atom
// serials).
func ParsePML(data []byte) (map[string]*dyno.FeatureCloud, error) {
	var doc pmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dynophore pml: %w", err)
	}

	clouds := make(map[string]*dyno.FeatureCloud, len(doc.FeatureClouds))
	for _, fc := range doc.FeatureClouds {
		if fc.Name == "" {
			return nil, fmt.Errorf("parse dynophore pml: featureCloud without name")
		}
		id := fmt.Sprintf("%s[%s]", fc.Name, fc.InvolvedAtoms)
		cloud := &dyno.FeatureCloud{ID: id}
		if fc.Position != nil {
			cloud.Center = dyno.Point{X: fc.Position.X, Y: fc.Position.Y, Z: fc.Position.Z}
		}
		for _, p := range fc.AdditionalPoints {
			cloud.Points = append(cloud.Points, dyno.Point{X: p.X, Y: p.Y, Z: p.Z})
		}
		clouds[id] = cloud
	}
	return clouds, nil
}
