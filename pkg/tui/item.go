package tui

import (
	"fmt"
	"strings"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// FeatureItem wraps a superfeature to implement list.Item.
type FeatureItem struct {
	Feature *dyno.SuperFeature
}

func (i FeatureItem) Title() string {
	return i.Feature.ID
}

func (i FeatureItem) Description() string {
	return fmt.Sprintf("%s • %.1f%% • %d partners",
		i.Feature.FeatureType, i.Feature.Frequency(), len(i.Feature.EnvPartners))
}

func (i FeatureItem) FilterValue() string {
	var sb strings.Builder
	sb.WriteString(i.Feature.ID)
	sb.WriteString(" ")
	sb.WriteString(i.Feature.FeatureType)
	for _, p := range i.Feature.EnvPartners {
		sb.WriteString(" ")
		sb.WriteString(p.ResidueName)
	}
	return sb.String()
}
