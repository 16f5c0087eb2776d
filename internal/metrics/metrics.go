// Package metrics holds the Prometheus collectors of the editor and the
// optional /metrics endpoint.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generations counts AI generation attempts by outcome.
	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diagramiz_ai_generations_total",
		Help: "AI diagram generations by outcome",
	}, []string{"outcome"})

	// GenerationDuration tracks end-to-end generation latency.
	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diagramiz_ai_generation_duration_seconds",
		Help:    "AI diagram generation duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
	}, []string{"outcome"})

	// Exports counts raster exports by outcome.
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diagramiz_exports_total",
		Help: "Diagram exports by outcome",
	}, []string{"outcome"})

	// LLMRequests counts model calls by provider and outcome. Retries
	// count once per attempt.
	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diagramiz_llm_requests_total",
		Help: "LLM requests by provider and outcome",
	}, []string{"provider", "outcome"})

	// LLMLatency tracks per-attempt model latency.
	LLMLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "diagramiz_llm_request_duration_seconds",
		Help:    "LLM request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	}, []string{"provider"})

	// HistorySnapshots counts snapshots appended to undo histories.
	HistorySnapshots = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diagramiz_history_snapshots_total",
		Help: "Snapshots recorded by undo histories",
	})
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// Serve exposes the default registry on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
