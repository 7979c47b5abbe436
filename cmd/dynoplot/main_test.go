package main

import (
	"math"
	"strings"
	"testing"

	"github.com/dynoviz/dynoplot/pkg/dyno"
	"github.com/dynoviz/dynoplot/pkg/plot"
	"github.com/dynoviz/dynoplot/pkg/testutil"
)

func TestBuildFigureAllTypes(t *testing.T) {
	d := testutil.MustGenerate(testutil.DefaultConfig())

	for _, plotType := range plotTypes {
		opts := renderOptions{plotType: plotType, kind: "line", step: 1, end: plot.LastFrame}
		if plotType == "interactions" {
			opts.names = []string{d.Superfeatures[0].ID}
		}
		fig, err := buildFigure(d, opts)
		if err != nil {
			t.Errorf("buildFigure(%s) failed: %v", plotType, err)
			continue
		}
		if fig == nil {
			t.Errorf("buildFigure(%s) returned nil figure", plotType)
		}
	}
}

func TestBuildFigureErrors(t *testing.T) {
	d := testutil.MustGenerate(testutil.DefaultConfig())

	if _, err := buildFigure(d, renderOptions{plotType: "pie", step: 1, end: plot.LastFrame}); err == nil {
		t.Error("unknown plot type should fail")
	}
	if _, err := buildFigure(d, renderOptions{plotType: "interactions", step: 1, end: plot.LastFrame}); err == nil {
		t.Error("interactions without a name should fail")
	}
	opts := renderOptions{plotType: "occurrences", names: []string{"NOPE[1]"}, step: 1, end: plot.LastFrame}
	if _, err := buildFigure(d, opts); err == nil {
		t.Error("unknown superfeature should fail")
	}
}

func TestOutputPath(t *testing.T) {
	d := testutil.MustGenerate(testutil.DefaultConfig())

	opts := renderOptions{format: "png", outDir: "plots"}
	if got := opts.outputPath(d, "heatmap"); got != "plots/TEST-1_heatmap.png" {
		t.Errorf("outputPath = %q", got)
	}
	opts = renderOptions{}
	if got := opts.outputPath(d, "superfeatures"); got != "TEST-1_superfeatures.svg" {
		t.Errorf("outputPath with defaults = %q", got)
	}
}

func TestSanitizeName(t *testing.T) {
	got := sanitizeName("H[4599,4602]")
	if strings.ContainsAny(got, "[],") {
		t.Errorf("sanitizeName left bracket characters in %q", got)
	}
}

func TestRollingFrequency(t *testing.T) {
	got := rollingFrequency([]float64{1, 1, 0, 0}, 2)
	want := []float64{1, 1, 0.5, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("rollingFrequency = %v, want %v", got, want)
		}
	}
}

func TestFillMissing(t *testing.T) {
	series := []float64{dyno.Missing, 2, dyno.Missing, 4}
	filled, n := fillMissing(series)
	if n != 2 {
		t.Errorf("measured = %d, want 2", n)
	}
	want := []float64{2, 2, 2, 4}
	for i := range want {
		if filled[i] != want[i] {
			t.Fatalf("fillMissing = %v, want %v", filled, want)
		}
	}

	if _, n := fillMissing([]float64{dyno.Missing}); n != 0 {
		t.Error("all-missing series should report zero measured frames")
	}
}

func TestMeanDistance(t *testing.T) {
	if got := meanDistance([]float64{dyno.Missing, dyno.Missing}); got != "n/a" {
		t.Errorf("meanDistance of missing series = %q, want n/a", got)
	}
	if got := meanDistance([]float64{2, 4}); got != "3.00 Å" {
		t.Errorf("meanDistance = %q, want 3.00 Å", got)
	}
}
