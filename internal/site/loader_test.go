package site

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
)

func TestParseOverridesBase(t *testing.T) {
	doc := `
base: hawaii
name: hawaii-shallow
soil:
  depth: 150
rainfall:
  days: 730
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "hawaii-shallow" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Soil.Depth != 150 || s.Rainfall.Days != 730 {
		t.Errorf("overrides not applied: depth %g days %d", s.Soil.Depth, s.Rainfall.Days)
	}
	// untouched fields keep the preset values
	if s.Soil.Porosity != 0.5 || s.Rainfall.StepsPerDay != 24 || s.Carbon.KD != 8.5e-3 {
		t.Errorf("preset values lost: %+v", s)
	}
}

func TestParseBaseOnly(t *testing.T) {
	s, err := Parse([]byte("base: princeton\n"))
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Preset(Princeton)
	if !reflect.DeepEqual(s, want) {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestParseDefaultsNameToBase(t *testing.T) {
	s, err := Parse([]byte("base: nylsvley\nname: \"\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != Nylsvley {
		t.Errorf("name = %q", s.Name)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, name := range Names() {
		want, _ := Preset(name)
		data, err := Marshal(want)
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		got, err := Parse(data)
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: round trip changed the site:\n got %+v\nwant %+v", name, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown base", "base: atlantis\n", ErrUnknownPreset},
		{"invalid thresholds", "base: hawaii\nsoil:\n  wilting: 0.9\n", entities.ErrInvalidSite},
		{"empty document", "", entities.ErrInvalidSite},
		{"negative depth", "base: princeton\nsoil:\n  depth: -1\n", entities.ErrInvalidSite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("soil: [1, 2")); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
	if _, err := Parse([]byte("soil:\n  depth: deep\n")); err == nil {
		t.Fatal("expected an error for a non-numeric depth")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(path, []byte("base: princeton\nrainfall:\n  days: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Rainfall.Days != 30 || s.Name != Princeton {
		t.Errorf("got %+v", s)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestResolve(t *testing.T) {
	s, err := Resolve("Hawaii", "")
	if err != nil || s.Name != Hawaii {
		t.Fatalf("preset: %+v %v", s, err)
	}

	if _, err := Resolve("", ""); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset with nothing given, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte("base: nylsvley\nname: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = Resolve("hawaii", path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "from-file" {
		t.Errorf("file should win over preset, got %q", s.Name)
	}
}
