package worker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/LeonardoBeccarini/ecohydro/internal/model"
	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
	"github.com/LeonardoBeccarini/ecohydro/internal/simulator"
	"github.com/LeonardoBeccarini/ecohydro/internal/site"
	"github.com/LeonardoBeccarini/ecohydro/pkg/dedup"
	"github.com/LeonardoBeccarini/ecohydro/pkg/rabbitmq"
)

const defaultResultTopic = "simulation/result/{site}"

// Exporter writes the series of a finished run to a reporting sink.
type Exporter interface {
	Export(ctx context.Context, runID string, res simulator.Result) (int, error)
}

// Config tunes a Worker.
type Config struct {
	ResultTopic string // may contain {site}
	MaxParallel int    // concurrent pipeline runs, 0 means 1
	MaxDays     int    // upper bound on a requested horizon, 0 means unbounded
}

// Worker turns run requests from MQTT into pipeline runs and publishes one
// RunResult per request.
type Worker struct {
	consumer  rabbitmq.IConsumer
	publisher rabbitmq.IPublisher
	exporter  Exporter
	metrics   *Metrics
	health    *health.Server
	deduper   *dedup.Deduper

	resultTopic string
	maxDays     int
	sem         chan struct{}
	wg          sync.WaitGroup
	newID       func() string

	mu     sync.Mutex
	ctx    context.Context // runs are cancelled with it
	closed bool
}

// NewWorker wires a worker. exp, metrics and hs may be nil.
func NewWorker(c rabbitmq.IConsumer, p rabbitmq.IPublisher, exp Exporter, metrics *Metrics, hs *health.Server, cfg Config) (*Worker, error) {
	if c == nil || p == nil {
		return nil, errors.New("worker: consumer and publisher are required")
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	parallel := cfg.MaxParallel
	if parallel < 1 {
		parallel = 1
	}
	w := &Worker{
		consumer:    c,
		publisher:   p,
		exporter:    exp,
		metrics:     metrics,
		health:      hs,
		deduper:     dedup.New(10*time.Minute, 20000),
		resultTopic: firstNonEmpty(cfg.ResultTopic, defaultResultTopic),
		maxDays:     cfg.MaxDays,
		sem:         make(chan struct{}, parallel),
		newID:       uuid.NewString,
		ctx:         context.Background(),
	}
	c.SetHandler(w.handleRequest)
	return w, nil
}

// Start consumes requests until ctx is done, then waits for in-flight runs.
// Runs still exporting when ctx is done see it cancelled.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	w.setServing(true)
	w.consumer.ConsumeMessage(ctx)
	w.setServing(false)

	// late callbacks must not Add after Wait or publish after Close
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.wg.Wait()
	w.publisher.Close()
}

func (w *Worker) setServing(ok bool) {
	if w.health == nil {
		return
	}
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	w.health.SetServingStatus(ServiceName, st)
	w.health.SetServingStatus("", st)
}

func (w *Worker) handleRequest(topic string, msg mqtt.Message) error {
	var req model.RunRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		log.Printf("worker: bad payload on %s: %v", topic, err)
		return nil
	}

	// QoS1 redeliveries carry the same request id, or at least the same payload
	key := req.RequestID
	if key == "" {
		h := sha256.Sum256(msg.Payload())
		key = hex.EncodeToString(h[:])
	}
	if !w.deduper.ShouldProcess(key) {
		w.metrics.duplicates.Inc()
		log.Printf("worker: duplicate request %s dropped", key)
		return nil
	}

	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()
	select {
	case w.sem <- struct{}{}:
	case <-ctx.Done():
		log.Printf("worker: shutting down, request %s dropped", key)
		return nil
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.sem
		log.Printf("worker: stopped, request %s dropped", key)
		return nil
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer func() {
			<-w.sem
			w.wg.Done()
		}()
		res := w.Process(ctx, req)
		if err := w.publish(res); err != nil {
			log.Printf("worker: publish result run=%s: %v", res.RunID, err)
		}
	}()
	return nil
}

// Process runs one request synchronously and builds its result. Failures
// are reported in RunResult.Error rather than returned.
func (w *Worker) Process(ctx context.Context, req model.RunRequest) model.RunResult {
	out := model.RunResult{
		RunID:     w.newID(),
		RequestID: req.RequestID,
		Seed:      req.Seed,
		Timestamp: time.Now().UTC(),
	}

	s, err := w.resolve(req)
	if err != nil {
		out.Site = firstNonEmpty(req.Preset, "unknown")
		out.Error = err.Error()
		w.metrics.runs.WithLabelValues(out.Site, "invalid").Inc()
		log.Printf("worker: request %s rejected: %v", req.RequestID, err)
		return out
	}
	out.Site, out.Location, out.Days = s.Name, s.Location, s.Rainfall.Days

	w.metrics.inflight.Inc()
	start := time.Now()
	res, err := simulator.RunSeed(s, req.Seed)
	elapsed := time.Since(start)
	w.metrics.inflight.Dec()
	out.DurationMs = elapsed.Milliseconds()
	if err != nil {
		out.Error = err.Error()
		w.metrics.runs.WithLabelValues(s.Name, "error").Inc()
		log.Printf("worker: run %s site=%s failed: %v", out.RunID, s.Name, err)
		return out
	}
	w.metrics.duration.WithLabelValues(s.Name).Observe(elapsed.Seconds())

	sum := simulator.Summarize(res)
	diag := simulator.Diagnose(res)
	out.TotalRain = sum.TotalRain
	out.RainyDays = sum.RainyDays
	out.MeanMoisture = sum.MeanMoisture
	out.MinMoisture = diag.MinMoisture
	out.MaxMoisture = diag.MaxMoisture
	out.Final = sum.Final
	out.MoistureOutOfRange = diag.MoistureOutOfRange
	out.NegativeCarbon = diag.NegativeCarbon
	out.NonFinite = diag.NonFinite
	w.metrics.outOfRange.WithLabelValues(s.Name).Add(float64(diag.MoistureOutOfRange))
	w.metrics.negCarbon.WithLabelValues(s.Name).Add(float64(diag.NegativeCarbon))
	if !diag.Stable() {
		log.Printf("worker: run %s site=%s left physical range from day %d (moisture=%d carbon=%d nonfinite=%d)",
			out.RunID, s.Name, diag.FirstExcursion, diag.MoistureOutOfRange, diag.NegativeCarbon, diag.NonFinite)
	}

	if req.Export && w.exporter != nil {
		n, err := w.exporter.Export(ctx, out.RunID, res)
		w.metrics.exported.WithLabelValues(s.Name).Add(float64(n))
		if err != nil {
			out.Error = fmt.Sprintf("export: %v", err)
			w.metrics.runs.WithLabelValues(s.Name, "export_error").Inc()
			log.Printf("worker: run %s export failed after %d points: %v", out.RunID, n, err)
			return out
		}
		out.Exported = true
	}

	if !diag.Stable() {
		w.metrics.runs.WithLabelValues(s.Name, "unstable").Inc()
		return out
	}
	w.metrics.runs.WithLabelValues(s.Name, "ok").Inc()
	log.Printf("worker: run %s site=%s days=%d seed=%d rain=%.2f meanS=%.4f C=%.1f in %s",
		out.RunID, s.Name, out.Days, req.Seed, out.TotalRain, out.MeanMoisture, sum.FinalTotal, elapsed)
	return out
}

func (w *Worker) resolve(req model.RunRequest) (entities.Site, error) {
	var (
		s   entities.Site
		err error
	)
	switch {
	case req.Site != nil:
		s = *req.Site
	case req.Preset != "":
		s, err = site.Preset(req.Preset)
		if err != nil {
			return entities.Site{}, err
		}
	default:
		return entities.Site{}, errors.New("request names neither a preset nor a site")
	}
	if req.Days > 0 {
		s = s.WithHorizon(req.Days)
	}
	if w.maxDays > 0 && s.Rainfall.Days > w.maxDays {
		return entities.Site{}, fmt.Errorf("horizon %d days exceeds limit %d", s.Rainfall.Days, w.maxDays)
	}
	if s.Name == "" {
		s.Name = "adhoc"
	}
	return s, s.Validate()
}

func (w *Worker) publish(res model.RunResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		// the requester still gets an answer, without the statistics
		log.Printf("worker: encode result run=%s: %v", res.RunID, err)
		w.metrics.runs.WithLabelValues(res.Site, "encode_error").Inc()
		b, err = json.Marshal(model.RunResult{
			RunID:     res.RunID,
			RequestID: res.RequestID,
			Site:      res.Site,
			Days:      res.Days,
			Seed:      res.Seed,
			Error:     fmt.Sprintf("encode result: %v", err),
			Timestamp: res.Timestamp,
		})
		if err != nil {
			return err
		}
	}
	topic := strings.NewReplacer("{site}", topicSegment(res.Site)).Replace(w.resultTopic)
	return w.publisher.PublishToQos(topic, rabbitmq.QosFor(topic), false, string(b))
}

// topicSegment makes name safe as a single MQTT topic level.
func topicSegment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/', r == '+', r == '#', r == '$', r < 0x20, r == 0x7f, r == ' ':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
