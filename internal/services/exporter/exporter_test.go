package exporter

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
	"github.com/LeonardoBeccarini/ecohydro/internal/simulator"
)

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]*write.Point
	err     error
}

func (f *fakeWriter) WritePoint(_ context.Context, points ...*write.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, points)
	return f.err
}

func (f *fakeWriter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func testResult(days int) simulator.Result {
	r := simulator.Result{
		Site: entities.Site{Name: "hawaii"},
		Carbon: simulator.CarbonSeries{
			Litter:  make([]float64, days),
			Humus:   make([]float64, days),
			Biomass: make([]float64, days),
		},
	}
	for i := 0; i < days; i++ {
		r.Rainfall = append(r.Rainfall, float64(i))
		r.Moisture = append(r.Moisture, float64(i)/10)
		r.Carbon.Litter[i] = 1000 + float64(i)
		r.Carbon.Humus[i] = 8000
		r.Carbon.Biomass[i] = 20
	}
	return r
}

func TestExportBatches(t *testing.T) {
	w := &fakeWriter{}
	e := New(w, Config{BatchSize: 4})

	n, err := e.Export(context.Background(), "run-1", testResult(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 10 {
		t.Errorf("wrote %d points, want 10", n)
	}
	if w.calls() != 3 {
		t.Fatalf("got %d writes, want 3", w.calls())
	}
	if got := len(w.batches[2]); got != 2 {
		t.Errorf("last batch has %d points, want 2", got)
	}
}

func TestPoints(t *testing.T) {
	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	e := New(&fakeWriter{}, Config{Start: start, Measurement: "eco series"})

	pts := e.Points("run-7", testResult(3))
	if len(pts) != 3 {
		t.Fatalf("got %d points", len(pts))
	}
	p := pts[2]
	if p.Name() != "eco_series" {
		t.Errorf("measurement = %q", p.Name())
	}
	if !p.Time().Equal(start.AddDate(0, 0, 2)) {
		t.Errorf("time = %s", p.Time())
	}

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	if tags["run_id"] != "run-7" || tags["site"] != "hawaii" {
		t.Errorf("tags = %v", tags)
	}

	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	want := map[string]float64{"rain": 2, "moisture": 0.2, "litter": 1002, "humus": 8000, "biomass": 20}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %v, want %v", k, fields[k], v)
		}
	}
}

func TestPointsSkipNonFiniteFields(t *testing.T) {
	e := New(&fakeWriter{}, Config{})
	res := testResult(2)
	res.Moisture[1] = math.NaN()
	res.Carbon.Biomass[1] = math.Inf(1)

	p := e.Points("run", res)[1]
	got := map[string]bool{}
	for _, f := range p.FieldList() {
		got[f.Key] = true
	}
	if got["moisture"] || got["biomass"] {
		t.Errorf("non-finite fields written: %v", got)
	}
	if !got["rain"] || !got["litter"] || !got["humus"] {
		t.Errorf("finite fields dropped: %v", got)
	}
}

func TestExportFailure(t *testing.T) {
	w := &fakeWriter{err: errors.New("influx down")}
	e := New(w, Config{BatchSize: 4, WriteRetries: 0})

	n, err := e.Export(context.Background(), "run-1", testResult(10))
	if err == nil {
		t.Fatal("expected an error")
	}
	if n != 0 {
		t.Errorf("wrote %d points before failing, want 0", n)
	}
	if w.calls() != 1 {
		t.Errorf("got %d writes, want 1 (no retries, abort on first batch)", w.calls())
	}
}

func TestBreakerOpens(t *testing.T) {
	w := &fakeWriter{err: errors.New("influx down")}
	e := New(w, Config{BreakerFailures: 3, BreakerOpenFor: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := e.Export(context.Background(), "run", testResult(2)); err == nil {
			t.Fatalf("export %d: expected an error", i)
		}
	}
	if e.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %s, want open", e.State())
	}

	_, err := e.Export(context.Background(), "run", testResult(2))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected ErrOpenState, got %v", err)
	}
	if w.calls() != 3 {
		t.Errorf("open breaker still reached the writer: %d calls", w.calls())
	}
}

func TestExportDisabled(t *testing.T) {
	var e *Exporter
	if _, err := e.Export(context.Background(), "run", testResult(1)); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := New(nil, Config{}).Export(context.Background(), "run", testResult(1)); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestNewInfluxExporterIncompleteConfig(t *testing.T) {
	if _, err := NewInfluxExporter(Config{InfluxURL: "http://localhost:8086"}); err == nil {
		t.Fatal("expected an error for a config without org and bucket")
	}
}
