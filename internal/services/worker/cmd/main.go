package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc/health"

	"github.com/LeonardoBeccarini/ecohydro/internal/services/exporter"
	"github.com/LeonardoBeccarini/ecohydro/internal/services/worker"
	"github.com/LeonardoBeccarini/ecohydro/pkg/rabbitmq"
)

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MQTT ---
	mqCfg := &rabbitmq.RabbitMQConfig{
		Host:     env("RABBITMQ_HOST", "localhost"),
		Port:     envInt("RABBITMQ_PORT", 1883),
		User:     env("RABBITMQ_USER", "guest"),
		Password: env("RABBITMQ_PASSWORD", "guest"),
		ClientID: fmt.Sprintf("ecohydro-worker-%s", env("HOSTNAME", "local")),
	}
	requestTopic := env("REQUEST_TOPIC", "simulation/request")
	resultTopic := env("RESULT_TOPIC", "simulation/result/{site}")

	mqClient, err := rabbitmq.NewRabbitMQConn(ctx, mqCfg)
	if err != nil {
		log.Fatalf("worker: mqtt connect failed: %v", err)
	}
	consumer := rabbitmq.NewConsumer(mqClient, requestTopic, nil)
	publisher := rabbitmq.NewPublisher(mqClient, resultTopic)

	// --- InfluxDB (optional reporting sink) ---
	var exp worker.Exporter
	if url := env("INFLUX_URL", ""); url != "" {
		e, err := exporter.NewInfluxExporter(exporter.Config{
			InfluxURL:       url,
			InfluxToken:     os.Getenv("INFLUX_TOKEN"),
			InfluxOrg:       env("INFLUX_ORG", "ecohydro"),
			InfluxBucket:    env("INFLUX_BUCKET", "series"),
			Measurement:     env("MEASUREMENT", "ecohydro_series"),
			BatchSize:       envInt("WRITE_BATCH_SIZE", 5000),
			BreakerFailures: envInt("CB_FAILS", 3),
			BreakerOpenFor:  envDuration("CB_OPEN_FOR", 30*time.Second),
			WriteRetries:    envInt("WRITE_RETRIES", 2),
		})
		if err != nil {
			log.Fatalf("worker: exporter init failed: %v", err)
		}
		defer e.Close()
		exp = e
		log.Printf("worker: exporting series to %s", url)
	} else {
		log.Printf("worker: INFLUX_URL not set, export disabled")
	}

	metrics := worker.NewMetrics()
	hs := health.NewServer()

	w, err := worker.NewWorker(consumer, publisher, exp, metrics, hs, worker.Config{
		ResultTopic: resultTopic,
		MaxParallel: envInt("SWEEP_WORKERS", 2),
		MaxDays:     envInt("MAX_DAYS", 365*1000),
	})
	if err != nil {
		log.Fatalf("worker: init failed: %v", err)
	}

	// --- HTTP: /metrics, /healthz ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	httpPort := env("METRICS_PORT", "9102")
	srv := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("worker: HTTP listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("worker: http server error: %v", err)
		}
	}()

	// --- gRPC health ---
	go func() {
		if err := worker.ServeHealth(ctx, ":"+env("GRPC_PORT", "50051"), hs); err != nil {
			log.Printf("worker: %v", err)
		}
	}()

	log.Printf("worker: running sub=%s pub=%s", requestTopic, resultTopic)
	w.Start(ctx)

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	log.Println("worker: shutdown complete")
}
