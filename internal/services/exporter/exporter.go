package exporter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sony/gobreaker"

	"github.com/LeonardoBeccarini/ecohydro/internal/simulator"
)

const (
	defaultMeasurement = "ecohydro_series"
	defaultBatchSize   = 5000
)

// ErrDisabled is returned by Export on an exporter without a writer.
var ErrDisabled = errors.New("exporter disabled")

// PointWriter is the subset of api.WriteAPIBlocking the exporter needs.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Config configura la destinazione Influx.
type Config struct {
	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string
	Measurement  string

	BatchSize int
	// Start is the timestamp of day 0; zero means 2000-01-01 UTC.
	Start time.Time

	BreakerFailures int
	BreakerOpenFor  time.Duration
	WriteRetries    int
}

// Exporter writes the series of a run to InfluxDB, one point per day.
type Exporter struct {
	writer      PointWriter
	client      influxdb2.Client
	cb          *gobreaker.CircuitBreaker
	measurement string
	batch       int
	start       time.Time
	retries     int
}

// NewInfluxExporter connects to Influx using cfg.
func NewInfluxExporter(cfg Config) (*Exporter, error) {
	if cfg.InfluxURL == "" || cfg.InfluxOrg == "" || cfg.InfluxBucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	e := New(client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket), cfg)
	e.client = client
	return e, nil
}

// New builds an exporter on an arbitrary writer.
func New(w PointWriter, cfg Config) *Exporter {
	measurement := sanitizeMeasurement(cfg.Measurement)
	if measurement == "" {
		measurement = defaultMeasurement
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	fails := cfg.BreakerFailures
	if fails <= 0 {
		fails = 3
	}
	openFor := cfg.BreakerOpenFor
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	retries := cfg.WriteRetries
	if retries < 0 {
		retries = 0
	}
	return &Exporter{
		writer:      w,
		cb:          newBreaker("influx-export", fails, openFor),
		measurement: measurement,
		batch:       batch,
		start:       start,
		retries:     retries,
	}
}

func newBreaker(name string, fails int, openFor time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("exporter: breaker %s %s -> %s", name, from, to)
		},
	})
}

// Points converts a run into Influx points; day i is stamped start+i days.
func (e *Exporter) Points(runID string, res simulator.Result) []*write.Point {
	tags := map[string]string{
		"run_id": runID,
		"site":   res.Site.Name,
	}
	out := make([]*write.Point, 0, res.Days())
	for i := 0; i < res.Days(); i++ {
		fields := map[string]interface{}{}
		// line protocol has no NaN or Inf; a runaway day keeps only its finite fields
		put := func(k string, v float64) {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				fields[k] = v
			}
		}
		put("rain", res.Rainfall[i])
		put("moisture", res.Moisture[i])
		if i < res.Carbon.Len() {
			c := res.Carbon.At(i)
			put("litter", c.Litter)
			put("humus", c.Humus)
			put("biomass", c.Biomass)
		}
		out = append(out, influxdb2.NewPoint(e.measurement, tags, fields, e.start.AddDate(0, 0, i)))
	}
	return out
}

// Export writes every day of res in batches and returns the number of points
// written. A batch that keeps failing trips the breaker and aborts the export.
func (e *Exporter) Export(ctx context.Context, runID string, res simulator.Result) (int, error) {
	if e == nil || e.writer == nil {
		return 0, ErrDisabled
	}
	points := e.Points(runID, res)
	written := 0
	for lo := 0; lo < len(points); lo += e.batch {
		hi := min(lo+e.batch, len(points))
		chunk := points[lo:hi]
		_, err := e.cb.Execute(func() (any, error) {
			return nil, e.writeWithRetry(ctx, chunk)
		})
		if err != nil {
			return written, fmt.Errorf("export %s points %d-%d: %w", runID, lo, hi, err)
		}
		written += len(chunk)
	}
	log.Printf("exporter: wrote %s run=%s site=%s points=%d", e.measurement, runID, res.Site.Name, written)
	return written, nil
}

func (e *Exporter) writeWithRetry(ctx context.Context, points []*write.Point) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 10 * time.Second
	return backoff.Retry(func() error {
		return e.writer.WritePoint(ctx, points...)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(e.retries)), ctx))
}

// State reports the breaker state, for health output.
func (e *Exporter) State() gobreaker.State { return e.cb.State() }

// Close releases the Influx client, if any.
func (e *Exporter) Close() {
	if e != nil && e.client != nil {
		e.client.Close()
	}
}

func sanitizeMeasurement(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
