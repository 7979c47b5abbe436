package dyno_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

// testDynophore builds a two-superfeature dynophore covering three frames.
func testDynophore(t *testing.T) *dyno.Dynophore {
	t.Helper()

	mustPartner := func(id string, atoms []int, occ, dist []float64) *dyno.EnvPartner {
		p, err := dyno.NewEnvPartner(id, atoms, occ, dist)
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	sfH, err := dyno.NewSuperFeature(
		"H[4599,4602,4601,4608,4609,4600]",
		[]int{4599, 4602, 4601, 4608, 4609, 4600},
		[]float64{0, 1, 1},
		[]*dyno.EnvPartner{
			mustPartner("ILE-10-A[169,171,172]", []int{169, 171, 172}, []float64{0, 0, 1}, []float64{6.0, 6.0, 3.0}),
			mustPartner("VAL-18-A[275,276,277]", []int{275, 276, 277}, []float64{0, 1, 0}, []float64{6.0, 4.0, 4.0}),
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	sfHBA, err := dyno.NewSuperFeature(
		"HBA[4619]",
		[]int{4619},
		[]float64{1, 1, 1},
		[]*dyno.EnvPartner{
			mustPartner("ASP-86-A[1313]", []int{1313}, []float64{1, 0, 1}, []float64{2.5, 3.5, 2.0}),
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	d, err := dyno.NewDynophore("1KE7-1", []*dyno.SuperFeature{sfH, sfHBA})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNewDynophoreSortsByID(t *testing.T) {
	d := testDynophore(t)

	want := []string{"HBA[4619]", "H[4599,4602,4601,4608,4609,4600]"}
	if got := d.SuperfeatureIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("SuperfeatureIDs() = %v, want %v", got, want)
	}
	if d.NumFrames() != 3 {
		t.Errorf("NumFrames() = %d, want 3", d.NumFrames())
	}
	if d.NumSuperfeatures() != 2 {
		t.Errorf("NumSuperfeatures() = %d, want 2", d.NumSuperfeatures())
	}
}

func TestNewDynophoreFrameMismatch(t *testing.T) {
	sf1, err := dyno.NewSuperFeature("H[1]", []int{1}, []float64{0, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sf2, err := dyno.NewSuperFeature("HBA[2]", []int{2}, []float64{0, 1, 1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = dyno.NewDynophore("bad", []*dyno.SuperFeature{sf1, sf2})
	if err == nil {
		t.Error("NewDynophore() should error on frame count mismatch")
	}
}

func TestSuperfeatureLookup(t *testing.T) {
	d := testDynophore(t)

	sf, err := d.Superfeature("HBA[4619]")
	if err != nil {
		t.Fatalf("Superfeature() error = %v", err)
	}
	if sf.FeatureType != "HBA" {
		t.Errorf("FeatureType = %q, want %q", sf.FeatureType, "HBA")
	}

	_, err = d.Superfeature("HBD[9999]")
	if !errors.Is(err, dyno.ErrUnknownSuperfeature) {
		t.Errorf("Superfeature() error = %v, want ErrUnknownSuperfeature", err)
	}

	if !d.HasSuperfeature("HBA[4619]") {
		t.Error("HasSuperfeature(HBA[4619]) = false, want true")
	}
	if d.HasSuperfeature("HBD[9999]") {
		t.Error("HasSuperfeature(HBD[9999]) = true, want false")
	}
}

func TestSuperfeatureOccurrences(t *testing.T) {
	d := testDynophore(t)

	table, err := d.SuperfeatureOccurrences()
	if err != nil {
		t.Fatalf("SuperfeatureOccurrences() error = %v", err)
	}

	if table.NumFrames() != 3 || table.NumColumns() != 2 {
		t.Fatalf("table is %dx%d, want 3x2", table.NumFrames(), table.NumColumns())
	}

	// Column 0 is HBA[4619] (alphabetically first), column 1 the H feature.
	wantHBA := []float64{1, 1, 1}
	if got, _ := table.Column("HBA[4619]"); !reflect.DeepEqual(got, wantHBA) {
		t.Errorf("Column(HBA) = %v, want %v", got, wantHBA)
	}
	wantH := []float64{0, 1, 1}
	if got, _ := table.Column("H[4599,4602,4601,4608,4609,4600]"); !reflect.DeepEqual(got, wantH) {
		t.Errorf("Column(H) = %v, want %v", got, wantH)
	}
}

func TestEnvPartnerTablesByName(t *testing.T) {
	d := testDynophore(t)

	occ, err := d.EnvPartnerOccurrences("H[4599,4602,4601,4608,4609,4600]")
	if err != nil {
		t.Fatalf("EnvPartnerOccurrences() error = %v", err)
	}
	if occ.NumColumns() != 2 {
		t.Errorf("NumColumns() = %d, want 2", occ.NumColumns())
	}

	_, err = d.EnvPartnerOccurrences("nope")
	if !errors.Is(err, dyno.ErrUnknownSuperfeature) {
		t.Errorf("EnvPartnerOccurrences(nope) error = %v, want ErrUnknownSuperfeature", err)
	}

	_, err = d.EnvPartnerDistances("nope")
	if !errors.Is(err, dyno.ErrUnknownSuperfeature) {
		t.Errorf("EnvPartnerDistances(nope) error = %v, want ErrUnknownSuperfeature", err)
	}
}

func TestCount(t *testing.T) {
	d := testDynophore(t)

	count, err := d.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}

	wantRows := []string{"any", "ASP-86-A[1313]", "ILE-10-A[169,171,172]", "VAL-18-A[275,276,277]"}
	if got := count.Rows(); !reflect.DeepEqual(got, wantRows) {
		t.Fatalf("Rows() = %v, want %v", got, wantRows)
	}

	// Columns: HBA[4619], H[4599,...].
	tests := []struct {
		row  string
		want []float64
	}{
		{"any", []float64{3, 2}},
		{"ASP-86-A[1313]", []float64{2, 0}},
		{"ILE-10-A[169,171,172]", []float64{0, 1}},
		{"VAL-18-A[275,276,277]", []float64{0, 1}},
	}
	for _, tt := range tests {
		got, ok := count.Row(tt.row)
		if !ok {
			t.Fatalf("Row(%q) missing", tt.row)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Row(%q) = %v, want %v", tt.row, got, tt.want)
		}
	}
}

func TestFrequency(t *testing.T) {
	d := testDynophore(t)

	freq, err := d.Frequency()
	if err != nil {
		t.Fatalf("Frequency() error = %v", err)
	}

	anyRow, ok := freq.Row("any")
	if !ok {
		t.Fatal(`Row("any") missing`)
	}
	want := []float64{100, 66.67}
	if !reflect.DeepEqual(anyRow, want) {
		t.Errorf(`Row("any") = %v, want %v`, anyRow, want)
	}

	ile, _ := freq.Row("ILE-10-A[169,171,172]")
	if ile[1] != 33.33 {
		t.Errorf("ILE frequency for H = %v, want 33.33", ile[1])
	}
	if ile[0] != 0 {
		t.Errorf("ILE frequency for HBA = %v, want 0", ile[0])
	}
}

func TestFeatureTypes(t *testing.T) {
	d := testDynophore(t)

	want := []string{"H", "HBA"}
	if got := d.FeatureTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("FeatureTypes() = %v, want %v", got, want)
	}
}
