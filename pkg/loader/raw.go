package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/metrics"
)

// The legacy raw output is one text file per interaction, with the
// metadata encoded in the filename:
//
//	1KE7-1_data_superfeature_H[4599,4602]_100.0.txt
//	1KE7-1_data_superfeature_HBA[4619]_12.3_envpartner_ASP_86_A[1313]_1.6.txt
//
// Superfeature files hold one occurrence flag per line; envpartner files
// hold occurrence and distance columns (comma or space separated).

type rawComponents struct {
	path           string
	dynophoreID    string
	superfeatureID string
	envpartnerID   string // empty for superfeature files
}

// loadRawDir reads a dynophore from the data/ (or raw_data/) directory
// inside dir.
func loadRawDir(dir string, opts Options) (*dyno.Dynophore, error) {
	defer metrics.Timer(metrics.LoadRawData)()

	var dataDir string
	for _, name := range []string{"data", "raw_data"} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			dataDir = candidate
			break
		}
	}
	if dataDir == "" {
		return nil, fmt.Errorf("%w in %s (no *_dynophore.json, data/ or raw_data/)", ErrNoDynophore, dir)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read raw data dir: %w", err)
	}

	var components []rawComponents
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		c, err := parseRawFilename(filepath.Join(dataDir, e.Name()))
		if err != nil {
			opts.warnf("skipping %s: %v", e.Name(), err)
			continue
		}
		components = append(components, c)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("%w in %s (no parseable raw data files)", ErrNoDynophore, dataDir)
	}

	var superfeatures []*dyno.SuperFeature
	for _, sfc := range components {
		if sfc.envpartnerID != "" {
			continue
		}
		occurrences, err := readColumns(sfc.path, 1)
		if err != nil {
			return nil, fmt.Errorf("superfeature %s: %w", sfc.superfeatureID, err)
		}

		var partners []*dyno.EnvPartner
		for _, epc := range components {
			if epc.envpartnerID == "" || epc.superfeatureID != sfc.superfeatureID {
				continue
			}
			series, err := readColumns(epc.path, 2)
			if err != nil {
				return nil, fmt.Errorf("env partner %s: %w", epc.envpartnerID, err)
			}
			occ, dist := series[0], series[1]
			for i, v := range dist {
				if occ[i] != 1 || v <= 0 {
					dist[i] = dyno.Missing
				}
			}
			atoms, err := dyno.ParseAtomNumbers(epc.envpartnerID)
			if err != nil {
				return nil, err
			}
			p, err := dyno.NewEnvPartner(epc.envpartnerID, atoms, occ, dist)
			if err != nil {
				return nil, err
			}
			partners = append(partners, p)
		}
		sortPartnersByFirstAtom(partners)

		atoms, err := dyno.ParseAtomNumbers(sfc.superfeatureID)
		if err != nil {
			return nil, err
		}
		sf, err := dyno.NewSuperFeature(sfc.superfeatureID, atoms, occurrences[0], partners)
		if err != nil {
			return nil, err
		}
		superfeatures = append(superfeatures, sf)
	}

	return dyno.NewDynophore(components[0].dynophoreID, superfeatures)
}

// parseRawFilename splits a raw data filename into its components. The
// underscore-separated stem has 5 fields for superfeature files and 10
// for envpartner files.
func parseRawFilename(path string) (rawComponents, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fields := strings.Split(stem, "_")

	c := rawComponents{path: path}
	switch len(fields) {
	case 5:
		// dynophore, "data", "superfeature", superfeature id, frequency
	case 10:
		// ... plus "envpartner", residue name, residue number,
		// chain[atoms], frequency
		c.envpartnerID = strings.Join(fields[6:9], "-")
	default:
		return c, fmt.Errorf("unrecognized raw data filename (%d fields)", len(fields))
	}
	if fields[1] != "data" || fields[2] != "superfeature" {
		return c, fmt.Errorf("unrecognized raw data filename")
	}
	c.dynophoreID = fields[0]
	c.superfeatureID = fields[3]
	if !strings.Contains(c.superfeatureID, "[") {
		return c, fmt.Errorf("superfeature id %q: missing atom list", c.superfeatureID)
	}
	return c, nil
}

// readColumns reads want whitespace- or comma-separated float columns
// from a raw data file.
func readColumns(path string, want int) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	columns := make([][]float64, want)
	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) < want {
			return nil, fmt.Errorf("%s line %d: %d columns, want %d", filepath.Base(path), lineNo+1, len(fields), want)
		}
		for j := 0; j < want; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), lineNo+1, err)
			}
			columns[j] = append(columns[j], v)
		}
	}
	return columns, nil
}
