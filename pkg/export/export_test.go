package export

import (
	"database/sql"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

func testDynophore(t *testing.T) *dyno.Dynophore {
	t.Helper()

	p1, err := dyno.NewEnvPartner("ILE-10-A[169,171,172]", []int{169, 171, 172},
		[]float64{0, 0, 1}, []float64{dyno.Missing, dyno.Missing, 3.1})
	if err != nil {
		t.Fatal(err)
	}
	p2, err := dyno.NewEnvPartner("VAL-18-A[275,276,277]", []int{275, 276, 277},
		[]float64{1, 1, 0}, []float64{4.2, 4.0, dyno.Missing})
	if err != nil {
		t.Fatal(err)
	}
	sf1, err := dyno.NewSuperFeature("H[4599,4602]", []int{4599, 4602},
		[]float64{0, 1, 1}, []*dyno.EnvPartner{p1, p2})
	if err != nil {
		t.Fatal(err)
	}
	sf2, err := dyno.NewSuperFeature("HBA[4619]", []int{4619},
		[]float64{1, 0, 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := dyno.NewDynophore("1KE7-1", []*dyno.SuperFeature{sf1, sf2})
	if err != nil {
		t.Fatal(err)
	}
	d.Clouds = map[string]*dyno.FeatureCloud{
		"H[4599,4602]": {
			ID:     "H[4599,4602]",
			Center: dyno.Point{X: 1, Y: 2, Z: 3},
			Points: []dyno.Point{{X: 1.1, Y: 2.1, Z: 3.1}, {X: 0.9, Y: 1.9, Z: 2.9}},
		},
	}
	return d
}

func TestSQLiteExport(t *testing.T) {
	d := testDynophore(t)
	path := filepath.Join(t.TempDir(), "out", "1KE7-1.sqlite")

	if err := NewSQLiteExporter(d).Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open exported database: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM superfeatures`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("superfeatures rows = %d, want 2", n)
	}

	var featureType, atoms string
	var count int
	var freq float64
	err = db.QueryRow(`SELECT feature_type, atom_numbers, count, frequency FROM superfeatures WHERE id = ?`,
		"H[4599,4602]").Scan(&featureType, &atoms, &count, &freq)
	if err != nil {
		t.Fatal(err)
	}
	if featureType != "H" || atoms != "4599,4602" || count != 2 {
		t.Errorf("superfeature row = (%q, %q, %d), want (H, 4599,4602, 2)", featureType, atoms, count)
	}

	var residue string
	var resNum int
	err = db.QueryRow(`SELECT residue_name, residue_number FROM envpartners WHERE id = ?`,
		"ILE-10-A[169,171,172]").Scan(&residue, &resNum)
	if err != nil {
		t.Fatal(err)
	}
	if residue != "ILE" || resNum != 10 {
		t.Errorf("envpartner residue = %s %d, want ILE 10", residue, resNum)
	}

	// Superfeature's own occurrence series carries NULL envpartner_id.
	if err := db.QueryRow(`SELECT COUNT(*) FROM occurrences WHERE envpartner_id IS NULL`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("superfeature occurrence rows = %d, want 6", n)
	}

	// Frames with no measured distance are NULL.
	if err := db.QueryRow(`SELECT COUNT(*) FROM distances WHERE distance IS NULL`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("NULL distance rows = %d, want 3", n)
	}
	var dist float64
	err = db.QueryRow(`SELECT distance FROM distances WHERE envpartner_id = ? AND frame = 2`,
		"ILE-10-A[169,171,172]").Scan(&dist)
	if err != nil {
		t.Fatal(err)
	}
	if dist != 3.1 {
		t.Errorf("distance = %v, want 3.1", dist)
	}

	// One center plus two cloud points.
	if err := db.QueryRow(`SELECT COUNT(*) FROM clouds`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("cloud rows = %d, want 3", n)
	}
	var isCenter int
	if err := db.QueryRow(`SELECT is_center FROM clouds WHERE point_index = 0`).Scan(&isCenter); err != nil {
		t.Fatal(err)
	}
	if isCenter != 1 {
		t.Error("point_index 0 should be the center")
	}

	var value string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'n_frames'`).Scan(&value); err != nil {
		t.Fatal(err)
	}
	if value != "3" {
		t.Errorf("meta n_frames = %q, want 3", value)
	}
}

func TestSQLiteExportReplacesExisting(t *testing.T) {
	d := testDynophore(t)
	path := filepath.Join(t.TempDir(), "1KE7-1.sqlite")
	if err := os.WriteFile(path, []byte("not a database"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewSQLiteExporter(d).Export(path); err != nil {
		t.Fatalf("Export over existing file failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM superfeatures`).Scan(&n); err != nil {
		t.Fatalf("exported file is not a valid database: %v", err)
	}
}

func TestWriteTableCSV(t *testing.T) {
	table, err := dyno.NewTable(
		[]string{"a", "b"},
		[]int{0, 1, 2},
		[][]float64{{1, 4.25}, {0, dyno.Missing}, {1, 3.5}},
	)
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := WriteTableCSV(&sb, table); err != nil {
		t.Fatalf("WriteTableCSV failed: %v", err)
	}

	want := "frame,a,b\n0,1,4.25\n1,0,\n2,1,3.5\n"
	if sb.String() != want {
		t.Errorf("CSV output:\n%q\nwant:\n%q", sb.String(), want)
	}
}

func TestExportCSV(t *testing.T) {
	d := testDynophore(t)
	dir := filepath.Join(t.TempDir(), "csv")

	written, err := ExportCSV(d, dir)
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	// One superfeature table plus occurrence and distance tables for the
	// superfeature that has partners. HBA[4619] has none and is skipped.
	if len(written) != 3 {
		t.Fatalf("wrote %d files, want 3: %v", len(written), written)
	}
	for _, path := range written {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing output file: %v", err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "1KE7-1_superfeatures_occurrences.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("superfeature CSV has %d lines, want 4", len(lines))
	}
	if lines[0] != "frame,H[4599,4602],HBA[4619]" {
		t.Errorf("header = %q", lines[0])
	}
}

func TestGenerateReport(t *testing.T) {
	d := testDynophore(t)

	report, err := GenerateReport(d)
	if err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	for _, want := range []string{
		"# Dynophore 1KE7-1",
		"**Frames:** 3",
		"**Superfeatures:** 2",
		"`H[4599,4602]`",
		"`ILE-10-A[169,171,172]`",
		"No environment partners recorded.",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// VAL partner measured 4.2 and 4.0: min 4.00, mean 4.10, max 4.20.
	if !strings.Contains(report, "4.00 | 4.10 | 4.20") {
		t.Error("report missing VAL-18 distance statistics")
	}
}

func TestDistanceStats(t *testing.T) {
	lo, mean, hi, ok := distanceStats([]float64{2, dyno.Missing, 4})
	if !ok {
		t.Fatal("expected measured values")
	}
	if lo != 2 || hi != 4 || math.Abs(mean-3) > 1e-12 {
		t.Errorf("stats = (%v, %v, %v), want (2, 3, 4)", lo, mean, hi)
	}

	if _, _, _, ok := distanceStats([]float64{dyno.Missing, dyno.Missing}); ok {
		t.Error("all-missing series should report ok=false")
	}
}
