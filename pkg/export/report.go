package export

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/metrics"
)

// GenerateReport renders a Markdown summary of the dynophore: overall
// statistics, a superfeature table, and one section per superfeature
// with its environment partners and distance statistics.
func GenerateReport(d *dyno.Dynophore) (string, error) {
	defer metrics.Timer(metrics.ReportBuild)()

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Dynophore %s\n\n", d.ID))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(time.RFC1123)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Frames:** %d\n", d.NumFrames()))
	sb.WriteString(fmt.Sprintf("- **Superfeatures:** %d\n", d.NumSuperfeatures()))
	nPartners := 0
	for _, sf := range d.Superfeatures {
		nPartners += len(sf.EnvPartners)
	}
	sb.WriteString(fmt.Sprintf("- **Environment partners:** %d\n\n", nPartners))

	sb.WriteString("## Superfeatures\n\n")
	sb.WriteString("| Superfeature | Type | Atoms | Count | Frequency |\n")
	sb.WriteString("|---|---|---|---:|---:|\n")
	for _, sf := range d.Superfeatures {
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %d | %.1f%% |\n",
			sf.ID, sf.FeatureType, joinInts(sf.AtomNumbers), sf.Count(), sf.Frequency()))
	}
	sb.WriteString("\n")

	for _, sf := range d.Superfeatures {
		writeSuperfeatureSection(&sb, sf)
	}

	return sb.String(), nil
}

func writeSuperfeatureSection(sb *strings.Builder, sf *dyno.SuperFeature) {
	sb.WriteString(fmt.Sprintf("## `%s`\n\n", sf.ID))
	sb.WriteString(fmt.Sprintf("%s feature on atoms %s, present in %d of %d frames (%.1f%%).\n\n",
		sf.FeatureType, joinInts(sf.AtomNumbers), sf.Count(), sf.NumFrames(), sf.Frequency()))

	if len(sf.EnvPartners) == 0 {
		sb.WriteString("No environment partners recorded.\n\n")
		return
	}

	sb.WriteString("| Partner | Residue | Count | Frequency | Distance min | mean | max |\n")
	sb.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, p := range sf.EnvPartners {
		lo, mean, hi, ok := distanceStats(p.Distances)
		distCells := "n/a | n/a | n/a"
		if ok {
			distCells = fmt.Sprintf("%.2f | %.2f | %.2f", lo, mean, hi)
		}
		sb.WriteString(fmt.Sprintf("| `%s` | %s %d (chain %s) | %d | %.1f%% | %s |\n",
			p.ID, p.ResidueName, p.ResidueNumber, p.Chain, p.Count(), p.Frequency(), distCells))
	}
	sb.WriteString("\n")
}

// distanceStats computes min, mean and max over the measured values of a
// distance series. ok is false when every frame is missing.
func distanceStats(distances []float64) (lo, mean, hi float64, ok bool) {
	measured := make([]float64, 0, len(distances))
	for _, v := range distances {
		if !dyno.IsMissing(v) {
			measured = append(measured, v)
		}
	}
	if len(measured) == 0 {
		return 0, 0, 0, false
	}
	lo, hi = measured[0], measured[0]
	for _, v := range measured[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, stat.Mean(measured, nil), hi, true
}
