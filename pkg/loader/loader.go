// Package loader reads DynophoreApp output into dyno values. Three
// on-disk forms are supported: the JSON statistics file, the PML file
// carrying the 3D point clouds, and the legacy per-interaction raw data
// directory.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/metrics"
)

// ErrNoDynophore is returned when a directory holds neither a dynophore
// JSON file nor a raw data directory.
var ErrNoDynophore = errors.New("no dynophore data found")

// Options controls loading.
type Options struct {
	// WarningHandler receives non-fatal findings (skipped files,
	// missing clouds). Nil warnings are dropped.
	WarningHandler func(string)
}

func (o Options) warnf(format string, args ...any) {
	if o.WarningHandler != nil {
		o.WarningHandler(fmt.Sprintf(format, args...))
	}
}

// ResolveDir picks the dynophore directory: an explicit non-empty path
// wins, then the DYNOPLOT_DIR environment variable, then the working
// directory.
func ResolveDir(path string) string {
	if path != "" {
		return path
	}
	if dir := os.Getenv("DYNOPLOT_DIR"); dir != "" {
		return dir
	}
	return "."
}

// Load reads a dynophore from a DynophoreApp output directory (or
// directly from a dynophore JSON file). The JSON statistics file is
// preferred; without one the raw data directory is parsed. A PML file
// next to the data contributes point clouds when present.
func Load(path string, opts Options) (*dyno.Dynophore, error) {
	dir := ResolveDir(path)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dynophore path: %w", err)
	}
	if !info.IsDir() {
		return LoadJSONFile(dir)
	}

	var d *dyno.Dynophore
	if jsonPath := findFile(dir, "_dynophore.json"); jsonPath != "" {
		d, err = LoadJSONFile(jsonPath)
		if err != nil {
			return nil, err
		}
	} else {
		d, err = loadRawDir(dir, opts)
		if err != nil {
			return nil, err
		}
	}

	if pmlPath := findFile(dir, "_dynophore.pml"); pmlPath != "" {
		clouds, err := LoadPMLFile(pmlPath)
		if err != nil {
			opts.warnf("skipping point clouds: %v", err)
		} else {
			attachClouds(d, clouds, opts)
		}
	}
	return d, nil
}

// LoadJSONFile reads a dynophore from its JSON statistics file.
func LoadJSONFile(path string) (*dyno.Dynophore, error) {
	defer metrics.Timer(metrics.LoadJSON)()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dynophore json: %w", err)
	}
	d, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// LoadPMLFile reads the superfeature point clouds from a PML file.
func LoadPMLFile(path string) (map[string]*dyno.FeatureCloud, error) {
	defer metrics.Timer(metrics.LoadPML)()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dynophore pml: %w", err)
	}
	clouds, err := ParsePML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return clouds, nil
}

// attachClouds hangs the parsed clouds onto the dynophore, warning about
// clouds that match no superfeature.
func attachClouds(d *dyno.Dynophore, clouds map[string]*dyno.FeatureCloud, opts Options) {
	if len(clouds) == 0 {
		return
	}
	d.Clouds = make(map[string]*dyno.FeatureCloud, len(clouds))
	names := make([]string, 0, len(clouds))
	for name := range clouds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !d.HasSuperfeature(name) {
			opts.warnf("point cloud %s matches no superfeature", name)
			continue
		}
		d.Clouds[name] = clouds[name]
	}
}

// findFile returns the lexically first file in dir whose name ends with
// suffix, or "".
func findFile(dir, suffix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0])
}
