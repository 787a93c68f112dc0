// Package metrics exposes dispatch counters for Prometheus.
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

// Command outcomes used as the "outcome" label.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
	OutcomeUnknown = "unknown"
)

var (
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slashkit_events_total",
		Help: "Gateway events dispatched to event handlers, by kind.",
	}, []string{"kind"})

	HandlerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slashkit_event_handler_failures_total",
		Help: "Event handler callbacks that returned an error or panicked, by kind.",
	}, []string{"kind"})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slashkit_commands_total",
		Help: "Command invocations, by command and outcome.",
	}, []string{"command", "outcome"})

	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slashkit_command_duration_seconds",
		Help:    "Command execution latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	RegisteredCommands = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slashkit_registered_commands",
		Help: "Number of registered command descriptors.",
	})

	RegisteredHandlers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slashkit_registered_event_handlers",
		Help: "Number of registered event handler descriptors.",
	})
)

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
