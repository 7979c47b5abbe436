//go:build ignore

// generate_testdata.go creates synthetic dynophore datasets for manual
// testing and benchmarking.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	tests/testdata/small/   (4 superfeatures, 100 frames)
//	tests/testdata/medium/  (8 superfeatures, 1000 frames)
//	tests/testdata/large/   (16 superfeatures, 10000 frames)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dynoviz/dynoplot/pkg/testutil"
)

var datasets = []testutil.GeneratorConfig{
	{ID: "SMALL-1", NumFrames: 100, NumSuperfeatures: 4, PartnersPerFeature: 3, Seed: 1},
	{ID: "MEDIUM-1", NumFrames: 1000, NumSuperfeatures: 8, PartnersPerFeature: 4, Seed: 2},
	{ID: "LARGE-1", NumFrames: 10000, NumSuperfeatures: 16, PartnersPerFeature: 5, Seed: 3},
}

var dirNames = map[string]string{"SMALL-1": "small", "MEDIUM-1": "medium", "LARGE-1": "large"}

func main() {
	for _, cfg := range datasets {
		d, err := testutil.Generate(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate %s: %v\n", cfg.ID, err)
			os.Exit(1)
		}
		dir := filepath.Join("tests", "testdata", dirNames[cfg.ID])
		if _, err := testutil.WriteJSONDir(dir, d); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", cfg.ID, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%d superfeatures, %d frames)\n", dir, cfg.NumSuperfeatures, cfg.NumFrames)
	}
}
