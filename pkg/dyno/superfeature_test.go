package dyno_test

import (
	"reflect"
	"testing"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

func testSuperFeature(t *testing.T) *dyno.SuperFeature {
	t.Helper()

	p1, err := dyno.NewEnvPartner(
		"ILE-10-A[169,171,172]",
		[]int{169, 171, 172},
		[]float64{0, 0, 1},
		[]float64{6.0, 6.0, 3.0},
	)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := dyno.NewEnvPartner(
		"VAL-18-A[275,276,277]",
		[]int{275, 276, 277},
		[]float64{0, 1, 0},
		[]float64{6.0, 4.0, 4.0},
	)
	if err != nil {
		t.Fatal(err)
	}

	sf, err := dyno.NewSuperFeature(
		"H[4599,4602,4601,4608,4609,4600]",
		[]int{4599, 4602, 4601, 4608, 4609, 4600},
		[]float64{0, 1, 1},
		[]*dyno.EnvPartner{p1, p2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return sf
}

func TestSuperFeatureBasics(t *testing.T) {
	sf := testSuperFeature(t)

	if sf.FeatureType != "H" {
		t.Errorf("FeatureType = %q, want %q", sf.FeatureType, "H")
	}
	if sf.NumFrames() != 3 {
		t.Errorf("NumFrames() = %d, want 3", sf.NumFrames())
	}
	if sf.Count() != 2 {
		t.Errorf("Count() = %d, want 2", sf.Count())
	}
	if got := sf.Frequency(); got != 66.67 {
		t.Errorf("Frequency() = %v, want 66.67", got)
	}

	wantIDs := []string{"ILE-10-A[169,171,172]", "VAL-18-A[275,276,277]"}
	if got := sf.PartnerIDs(); !reflect.DeepEqual(got, wantIDs) {
		t.Errorf("PartnerIDs() = %v, want %v", got, wantIDs)
	}
}

func TestNewSuperFeatureFrameMismatch(t *testing.T) {
	p, err := dyno.NewEnvPartner("ILE-10-A[169]", []int{169}, []float64{0, 1}, []float64{6.0, 3.0})
	if err != nil {
		t.Fatal(err)
	}

	_, err = dyno.NewSuperFeature("H[1]", []int{1}, []float64{0, 1, 1}, []*dyno.EnvPartner{p})
	if err == nil {
		t.Error("NewSuperFeature() should error on partner frame mismatch")
	}
}

func TestSuperFeatureEnvPartnerTables(t *testing.T) {
	sf := testSuperFeature(t)

	occ, err := sf.EnvPartnerOccurrences()
	if err != nil {
		t.Fatalf("EnvPartnerOccurrences() error = %v", err)
	}
	if occ.NumFrames() != 3 || occ.NumColumns() != 2 {
		t.Fatalf("occurrence table is %dx%d, want 3x2", occ.NumFrames(), occ.NumColumns())
	}
	if got := occ.Value(2, 0); got != 1 {
		t.Errorf("occurrences[2][ILE] = %v, want 1", got)
	}
	if got := occ.Value(0, 1); got != 0 {
		t.Errorf("occurrences[0][VAL] = %v, want 0", got)
	}

	dist, err := sf.EnvPartnerDistances()
	if err != nil {
		t.Fatalf("EnvPartnerDistances() error = %v", err)
	}
	if got := dist.Value(1, 1); got != 4.0 {
		t.Errorf("distances[1][VAL] = %v, want 4.0", got)
	}
	if got := dist.Frames(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Frames() = %v, want [0 1 2]", got)
	}
}

func TestParseAtomNumbers(t *testing.T) {
	tests := []struct {
		id      string
		want    []int
		wantErr bool
	}{
		{id: "HBA[4619]", want: []int{4619}},
		{id: "H[4599,4602,4601]", want: []int{4599, 4602, 4601}},
		{id: "AR[4605, 4607]", want: []int{4605, 4607}},
		{id: "HBA", wantErr: true},
		{id: "HBA[46x9]", wantErr: true},
		{id: "HBA[4619", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := dyno.ParseAtomNumbers(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAtomNumbers(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err == nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAtomNumbers(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
