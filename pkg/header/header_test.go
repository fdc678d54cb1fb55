package header

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/boreholelog/pkg/errors"
)

func TestDecode(t *testing.T) {
	in := `
project_name: SESRO
client: Thames Water
coords: E443012.50 N195881.00
project_no: 303568-00
hole_type: CP+RC
`
	m, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.ProjectName != "SESRO" || m.Client != "Thames Water" || m.HoleType != "CP+RC" {
		t.Errorf("Decode() = %+v", m)
	}
}

func TestDecodeEmpty(t *testing.T) {
	m, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Decode(empty): %v", err)
	}
	if m != (Metadata{}) {
		t.Errorf("Decode(empty) = %+v, want zero", m)
	}
}

func TestDecodeUnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("projekt: x\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	m := Metadata{ProjectName: "SESRO", Scale: "1:50"}
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "header.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != m {
		t.Errorf("round trip = %+v, want %+v", got, m)
	}
}

func TestResolve(t *testing.T) {
	m := Metadata{}.Resolve("BH01", 62.5)
	if m.BoreholeNumber != "BH01" {
		t.Errorf("BoreholeNumber = %q", m.BoreholeNumber)
	}
	if m.Level != "62.50m AoD" {
		t.Errorf("Level = %q", m.Level)
	}
	if m.Scale != DefaultScale {
		t.Errorf("Scale = %q", m.Scale)
	}

	kept := Metadata{BoreholeNumber: "X", Level: "ground"}.Resolve("BH01", 62.5)
	if kept.BoreholeNumber != "X" || kept.Level != "ground" {
		t.Errorf("Resolve overwrote explicit values: %+v", kept)
	}
}

func TestGridAndRow(t *testing.T) {
	m := Metadata{ProjectName: "SESRO", DrillingEquipment: "Rig 7"}
	g := m.Grid()
	if g[0][0].Label != "Project Name:" || g[0][0].Value != "SESRO" {
		t.Errorf("Grid()[0][0] = %+v", g[0][0])
	}
	if g[2][2].Label != "Drilling Equipment:" || g[2][2].Value != "Rig 7" {
		t.Errorf("Grid()[2][2] = %+v", g[2][2])
	}

	row := m.Row(4, 5)
	if row[5].Value != "Sheet 4 of 5" {
		t.Errorf("Row()[5] = %+v", row[5])
	}
}

func TestMerge(t *testing.T) {
	base := Metadata{ProjectName: "SESRO", Client: "Thames Water", LoggedBy: "AB"}
	got := base.Merge(Metadata{Client: "Affinity", HoleType: "CP"})
	want := Metadata{ProjectName: "SESRO", Client: "Affinity", LoggedBy: "AB", HoleType: "CP"}
	if got != want {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
	if !(Metadata{}).IsZero() || got.IsZero() {
		t.Error("IsZero mismatch")
	}
}
