package site

import (
	"errors"
	"reflect"
	"testing"
)

func TestNames(t *testing.T) {
	want := []string{Hawaii, Nylsvley, Princeton}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range Names() {
		s, err := Preset(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if s.Name != name {
			t.Errorf("%s: preset carries name %q", name, s.Name)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestPresetValues(t *testing.T) {
	h, err := Preset(Hawaii)
	if err != nil {
		t.Fatal(err)
	}
	if h.Rainfall.Days != 365*500 || h.Rainfall.StepsPerDay != 24 {
		t.Errorf("hawaii horizon = %d days x %d steps", h.Rainfall.Days, h.Rainfall.StepsPerDay)
	}
	if h.Soil.Depth != 300 || h.Soil.Start() != 0.11 {
		t.Errorf("hawaii soil: depth %g start %g", h.Soil.Depth, h.Soil.Start())
	}

	p, err := Preset(Princeton)
	if err != nil {
		t.Fatal(err)
	}
	if p.Soil.InitialMoisture != nil || p.Soil.Start() != p.Soil.Hygroscopic {
		t.Errorf("princeton should start at the hygroscopic point, got %g", p.Soil.Start())
	}
	if p.Rainfall.Steps() != 1 {
		t.Errorf("princeton steps = %d", p.Rainfall.Steps())
	}
}

func TestPresetCaseInsensitive(t *testing.T) {
	for _, name := range []string{"HAWAII", "Hawaii", " hawaii "} {
		s, err := Preset(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if s.Name != Hawaii {
			t.Errorf("%q: got %q", name, s.Name)
		}
	}
}

func TestPresetReturnsFreshCopy(t *testing.T) {
	a, _ := Preset(Nylsvley)
	a.Soil.Depth = 1
	*a.Soil.InitialMoisture = 0.9

	b, _ := Preset(Nylsvley)
	if b.Soil.Depth != 800 || *b.Soil.InitialMoisture != 0.11 {
		t.Errorf("preset was mutated through a previous copy: %+v", b.Soil)
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("atlantis"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}
