package loader

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dynoviz/dynoplot/pkg/dyno"
)

const dynophoreJSON = `{
  "id": "1KE7-1",
  "superfeatures": [
    {
      "id": "H[4599,4602,4601,4608,4609,4600]",
      "feature_type": "H",
      "atom_numbers": [4599, 4602, 4601, 4608, 4609, 4600],
      "occurrences": [0, 1, 1],
      "envpartners": [
        {
          "id": "VAL-18-A[275,276,277]",
          "name": "VAL-18-A",
          "atom_numbers": [275, 276, 277],
          "occurrences": [0, 1, 0],
          "distances": [6.0, 4.0, 4.0]
        },
        {
          "id": "ILE-10-A[169,171,172]",
          "name": "ILE-10-A",
          "atom_numbers": [169, 171, 172],
          "occurrences": [0, 0, 1],
          "distances": [6.0, 6.0, 3.0]
        }
      ]
    },
    {
      "id": "HBA[4619]",
      "feature_type": "HBA",
      "atom_numbers": [4619],
      "occurrences": [1, 0, 0],
      "envpartners": [
        {
          "id": "ASP-86-A[1313]",
          "name": "ASP-86-A",
          "atom_numbers": [1313],
          "occurrences": [1, 0, 0],
          "distances": [1.6, -1.0, -1.0]
        }
      ]
    }
  ]
}`

func TestParseJSON(t *testing.T) {
	d, err := ParseJSON([]byte(dynophoreJSON))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	if d.ID != "1KE7-1" {
		t.Errorf("dynophore id = %q, want 1KE7-1", d.ID)
	}
	if d.NumFrames() != 3 {
		t.Errorf("frames = %d, want 3", d.NumFrames())
	}
	if d.NumSuperfeatures() != 2 {
		t.Fatalf("superfeatures = %d, want 2", d.NumSuperfeatures())
	}

	// Superfeatures come back sorted by ID.
	ids := d.SuperfeatureIDs()
	if ids[0] != "H[4599,4602,4601,4608,4609,4600]" || ids[1] != "HBA[4619]" {
		t.Errorf("superfeature order = %v", ids)
	}

	// Partners are reordered by first involved atom serial: ILE (169)
	// before VAL (275), despite the file order.
	sf, err := d.Superfeature("H[4599,4602,4601,4608,4609,4600]")
	if err != nil {
		t.Fatal(err)
	}
	partners := sf.PartnerIDs()
	if partners[0] != "ILE-10-A[169,171,172]" || partners[1] != "VAL-18-A[275,276,277]" {
		t.Errorf("partner order = %v", partners)
	}

	ile, ok := sf.Partner("ILE-10-A[169,171,172]")
	if !ok {
		t.Fatal("ILE partner missing")
	}
	if ile.ResidueName != "ILE" || ile.ResidueNumber != 10 || ile.Chain != "A" {
		t.Errorf("residue parse = %s %d %s", ile.ResidueName, ile.ResidueNumber, ile.Chain)
	}
}

func TestParseJSON_NegativeDistancesAreMissing(t *testing.T) {
	d, err := ParseJSON([]byte(dynophoreJSON))
	if err != nil {
		t.Fatal(err)
	}
	sf, err := d.Superfeature("HBA[4619]")
	if err != nil {
		t.Fatal(err)
	}
	asp := sf.EnvPartners[0]
	if asp.Distances[0] != 1.6 {
		t.Errorf("measured distance = %v, want 1.6", asp.Distances[0])
	}
	for _, i := range []int{1, 2} {
		if !math.IsNaN(asp.Distances[i]) {
			t.Errorf("frame %d: distance = %v, want missing", i, asp.Distances[i])
		}
	}
}

func TestParseJSON_ComposesPartnerID(t *testing.T) {
	doc := `{
	  "id": "X-1",
	  "superfeatures": [{
	    "id": "H[1,2]",
	    "occurrences": [1],
	    "envpartners": [{
	      "name": "ILE-10-A",
	      "atom_numbers": [169, 171],
	      "occurrences": [1],
	      "distances": [2.5]
	    }]
	  }]
	}`
	d, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	sf := d.Superfeatures[0]
	if got := sf.PartnerIDs()[0]; got != "ILE-10-A[169,171]" {
		t.Errorf("composed partner id = %q", got)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	cases := map[string]string{
		"not json":   `{"id": `,
		"missing id": `{"superfeatures": []}`,
		"frame mismatch": `{
		  "id": "X",
		  "superfeatures": [{
		    "id": "H[1]",
		    "occurrences": [1, 0],
		    "envpartners": [{
		      "id": "ILE-10-A[1]",
		      "occurrences": [1],
		      "distances": [2.0]
		    }]
		  }]
		}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseJSON([]byte(doc)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

const dynophorePML = `<?xml version="1.0" encoding="UTF-8"?>
<pharmacophore name="1KE7-1" pharmacophoreType="LIGAND_SCOUT">
  <featureCloud name="HBA" featureColor="red" involvedAtomSerials="4619">
    <position x3="1.5" y3="-2.0" z3="0.25" weight="1.0"/>
    <additionalPoint x3="1.4" y3="-2.1" z3="0.3" weight="0.5"/>
    <additionalPoint x3="1.6" y3="-1.9" z3="0.2" weight="0.5"/>
  </featureCloud>
  <featureCloud name="H" featureColor="yellow" involvedAtomSerials="4599,4602">
    <position x3="0.0" y3="0.0" z3="0.0" weight="1.0"/>
  </featureCloud>
</pharmacophore>`

func TestParsePML(t *testing.T) {
	clouds, err := ParsePML([]byte(dynophorePML))
	if err != nil {
		t.Fatalf("ParsePML failed: %v", err)
	}
	if len(clouds) != 2 {
		t.Fatalf("clouds = %d, want 2", len(clouds))
	}

	hba, ok := clouds["HBA[4619]"]
	if !ok {
		t.Fatalf("HBA cloud missing, have %v", clouds)
	}
	if hba.Center != (dyno.Point{X: 1.5, Y: -2.0, Z: 0.25}) {
		t.Errorf("center = %+v", hba.Center)
	}
	if hba.NumPoints() != 2 {
		t.Errorf("points = %d, want 2", hba.NumPoints())
	}
	if hba.Points[0] != (dyno.Point{X: 1.4, Y: -2.1, Z: 0.3}) {
		t.Errorf("point[0] = %+v", hba.Points[0])
	}

	if h, ok := clouds["H[4599,4602]"]; !ok || h.NumPoints() != 0 {
		t.Errorf("H cloud = %+v", h)
	}
}

func TestParsePML_Invalid(t *testing.T) {
	if _, err := ParsePML([]byte("<pharmacophore>")); err == nil {
		t.Error("expected error for truncated xml")
	}
	if _, err := ParsePML([]byte(`<p><featureCloud involvedAtomSerials="1"/></p>`)); err == nil {
		t.Error("expected error for featureCloud without name")
	}
}

// writeRawDir lays out a minimal legacy raw data directory.
func writeRawDir(t *testing.T, root string) {
	t.Helper()
	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"1KE7-1_data_superfeature_H[4599,4602]_66.7.txt":                        "0\n1\n1\n",
		"1KE7-1_data_superfeature_H[4599,4602]_33.3_envpartner_ILE_10_A[169]_33.3.txt": "0,6\n0,6\n1,3\n",
		"1KE7-1_data_superfeature_HBA[4619]_33.3.txt":                           "1\n0\n0\n",
		"1KE7-1_data_superfeature_HBA[4619]_33.3_envpartner_ASP_86_A[1313]_33.3.txt":   "1 2\n0 0\n0 0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoad_RawDataDir(t *testing.T) {
	root := t.TempDir()
	writeRawDir(t, root)

	var warnings []string
	d, err := Load(root, Options{WarningHandler: func(msg string) { warnings = append(warnings, msg) }})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if d.ID != "1KE7-1" {
		t.Errorf("id = %q", d.ID)
	}
	if d.NumFrames() != 3 || d.NumSuperfeatures() != 2 {
		t.Errorf("shape = %d frames, %d superfeatures", d.NumFrames(), d.NumSuperfeatures())
	}

	sf, err := d.Superfeature("H[4599,4602]")
	if err != nil {
		t.Fatal(err)
	}
	if len(sf.EnvPartners) != 1 || sf.EnvPartners[0].ID != "ILE-10-A[169]" {
		t.Errorf("partners = %v", sf.PartnerIDs())
	}
	// Distance is only kept for frames where the interaction occurs.
	ile := sf.EnvPartners[0]
	if !math.IsNaN(ile.Distances[0]) || ile.Distances[2] != 3 {
		t.Errorf("distances = %v", ile.Distances)
	}

	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestLoad_SkipsUnparseableRawFiles(t *testing.T) {
	root := t.TempDir()
	writeRawDir(t, root)
	if err := os.WriteFile(filepath.Join(root, "data", "README.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	_, err := Load(root, Options{WarningHandler: func(msg string) { warnings = append(warnings, msg) }})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "README.txt") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestLoad_PrefersJSON(t *testing.T) {
	root := t.TempDir()
	writeRawDir(t, root) // decoy; the JSON file must win
	if err := os.WriteFile(filepath.Join(root, "1KE7_dynophore.json"), []byte(dynophoreJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "1KE7_dynophore.pml"), []byte(dynophorePML), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(root, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.NumSuperfeatures() != 2 || d.NumFrames() != 3 {
		t.Errorf("shape = %d superfeatures, %d frames", d.NumSuperfeatures(), d.NumFrames())
	}
	// HBA[4619] appears in both the JSON and the PML; its cloud attaches.
	if _, ok := d.Clouds["HBA[4619]"]; !ok {
		t.Errorf("clouds = %v", d.Clouds)
	}
}

func TestLoad_CloudWithoutSuperfeatureWarns(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "1KE7_dynophore.json"), []byte(dynophoreJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	pml := `<p><featureCloud name="NI" involvedAtomSerials="9999"><position x3="0" y3="0" z3="0"/></featureCloud></p>`
	if err := os.WriteFile(filepath.Join(root, "1KE7_dynophore.pml"), []byte(pml), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings []string
	d, err := Load(root, Options{WarningHandler: func(msg string) { warnings = append(warnings, msg) }})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "NI[9999]") {
		t.Errorf("warnings = %v", warnings)
	}
	if len(d.Clouds) != 0 {
		t.Errorf("clouds = %v", d.Clouds)
	}
}

func TestLoad_DirectJSONPath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "1KE7_dynophore.json")
	if err := os.WriteFile(path, []byte(dynophoreJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.ID != "1KE7-1" {
		t.Errorf("id = %q", d.ID)
	}
}

func TestLoad_EmptyDir(t *testing.T) {
	_, err := Load(t.TempDir(), Options{})
	if !errors.Is(err, ErrNoDynophore) {
		t.Errorf("expected ErrNoDynophore, got %v", err)
	}
}

func TestResolveDir(t *testing.T) {
	t.Setenv("DYNOPLOT_DIR", "/from/env")

	if got := ResolveDir("/explicit"); got != "/explicit" {
		t.Errorf("explicit path: got %q", got)
	}
	if got := ResolveDir(""); got != "/from/env" {
		t.Errorf("env fallback: got %q", got)
	}

	t.Setenv("DYNOPLOT_DIR", "")
	if got := ResolveDir(""); got != "." {
		t.Errorf("default: got %q", got)
	}
}
