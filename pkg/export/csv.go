package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/metrics"
)

// WriteTableCSV writes a frames-by-columns table as CSV: a "frame"
// column followed by one column per table column. Missing cells are
// written empty.
func WriteTableCSV(w io.Writer, t dyno.Table) error {
	cw := csv.NewWriter(w)
	header := append([]string{"frame"}, t.Columns()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(header))
	for i := 0; i < t.NumFrames(); i++ {
		record[0] = strconv.Itoa(t.Frame(i))
		for j := 0; j < t.NumColumns(); j++ {
			v := t.Value(i, j)
			if dyno.IsMissing(v) {
				record[j+1] = ""
			} else {
				record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the dynophore's tables to dir: the superfeature
// occurrence table plus one occurrence and one distance table per
// superfeature. Returns the written file paths.
func ExportCSV(d *dyno.Dynophore, dir string) ([]string, error) {
	defer metrics.Timer(metrics.ExportCSV)()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	writeTable := func(name string, t dyno.Table) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := WriteTableCSV(f, t); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		written = append(written, path)
		return f.Close()
	}

	occ, err := d.SuperfeatureOccurrences()
	if err != nil {
		return nil, err
	}
	if err := writeTable(d.ID+"_superfeatures_occurrences.csv", occ); err != nil {
		return nil, err
	}

	for _, sf := range d.Superfeatures {
		if len(sf.EnvPartners) == 0 {
			continue
		}
		slug := pathSafe(sf.ID)
		t, err := sf.EnvPartnerOccurrences()
		if err != nil {
			return nil, err
		}
		if err := writeTable(fmt.Sprintf("%s_%s_occurrences.csv", d.ID, slug), t); err != nil {
			return nil, err
		}
		t, err = sf.EnvPartnerDistances()
		if err != nil {
			return nil, err
		}
		if err := writeTable(fmt.Sprintf("%s_%s_distances.csv", d.ID, slug), t); err != nil {
			return nil, err
		}
	}
	return written, nil
}

// pathSafe makes a superfeature ID usable as a filename fragment.
func pathSafe(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == '[', r == ']', r == ',':
			out = append(out, '-')
		}
	}
	return string(out)
}
