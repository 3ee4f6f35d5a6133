package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LeonardoBeccarini/ecohydro/internal/site"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunText(t *testing.T) {
	out, err := execute(t, "run", "--site", "princeton", "--days", "30", "--seed", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, want := range []string{"princeton", "days", "30", "seed 5", "rainfall", "moisture", "carbon"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRunSeries(t *testing.T) {
	out, err := execute(t, "run", "--days", "5", "--series")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cumulative") {
		t.Errorf("series header missing:\n%s", out)
	}
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "--site", "hawaii", "--days", "20", "--json", "--series")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Site struct {
			Name string `json:"name"`
		} `json:"site"`
		Summary struct {
			Days int `json:"days"`
		} `json:"summary"`
		Series *struct {
			Moisture []float64 `json:"moisture"`
		} `json:"series"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Site.Name != site.Hawaii || doc.Summary.Days != 20 {
		t.Errorf("got %+v", doc)
	}
	if doc.Series == nil || len(doc.Series.Moisture) != 20 {
		t.Errorf("series missing or wrong length")
	}
}

func TestRunFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	doc := "base: nylsvley\nname: nylsvley-deep\nsoil:\n  depth: 1200\nrainfall:\n  days: 15\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "run", "--file", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "nylsvley-deep") {
		t.Errorf("output does not name the file site:\n%s", out)
	}
}

func TestRunJSONUnstable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runaway.yaml")
	doc := "base: princeton\nname: runaway\ncarbon:\n  k_l: 1\nrainfall:\n  days: 60\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := execute(t, "run", "--file", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "UNSTABLE") {
		t.Errorf("text output does not flag the run:\n%s", text)
	}

	out, err := execute(t, "run", "--file", path, "--json", "--series")
	if err != nil {
		t.Fatalf("unstable run could not be written as JSON: %v", err)
	}
	var res struct {
		Summary struct {
			FinalTotal *float64 `json:"final_total_carbon"`
		} `json:"summary"`
		Diagnostics struct {
			NonFinite      int `json:"non_finite"`
			FirstExcursion int `json:"first_excursion"`
		} `json:"diagnostics"`
		Series struct {
			Carbon struct {
				Litter []*float64 `json:"litter"`
			} `json:"carbon"`
		} `json:"series"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.Diagnostics.NonFinite == 0 || res.Diagnostics.FirstExcursion < 0 {
		t.Errorf("diagnostics lost: %+v", res.Diagnostics)
	}
	if res.Summary.FinalTotal != nil {
		t.Errorf("non-finite total encoded as %g, want null", *res.Summary.FinalTotal)
	}
	litter := res.Series.Carbon.Litter
	if len(litter) != 60 || litter[0] == nil || litter[59] != nil {
		t.Errorf("litter series should start finite and end null, got %d values", len(litter))
	}
}

func TestRunUnknownSite(t *testing.T) {
	if _, err := execute(t, "run", "--site", "atlantis"); !errors.Is(err, site.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestRunNegativeDays(t *testing.T) {
	if _, err := execute(t, "run", "--days", "-3"); err == nil {
		t.Fatal("expected an error for a negative horizon")
	}
}

func TestPresetsList(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range site.Names() {
		if !strings.Contains(out, n) {
			t.Errorf("list lacks %s:\n%s", n, out)
		}
	}
}

func TestPresetsDump(t *testing.T) {
	out, err := execute(t, "presets", "hawaii")
	if err != nil {
		t.Fatal(err)
	}
	s, err := site.Parse([]byte(out))
	if err != nil {
		t.Fatalf("dump does not parse back: %v\n%s", err, out)
	}
	if s.Name != site.Hawaii || s.Soil.Depth != 300 {
		t.Errorf("got %+v", s)
	}
}

func TestLosses(t *testing.T) {
	out, err := execute(t, "losses", "--points", "10")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 11 {
		t.Fatalf("got %d lines, want header + 10:\n%s", len(lines), out)
	}
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "sweep", "--days", "20", "--workers", "2")
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range site.Names() {
		if !strings.Contains(out, n) {
			t.Errorf("sweep output lacks %s:\n%s", n, out)
		}
	}

	again, err := execute(t, "sweep", "--days", "20", "--workers", "1")
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Error("sweep output depends on the worker count")
	}
}
