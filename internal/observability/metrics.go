package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for the launcher and its tools.
type Metrics struct {
	registry         *prometheus.Registry
	ToolLaunches     *prometheus.CounterVec
	Downloads        *prometheus.CounterVec
	DownloadDuration *prometheus.HistogramVec
	ActiveOps        *prometheus.GaugeVec
	Compressions     *prometheus.CounterVec
}

// NewMetrics constructs a metrics registry with launcher collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	launches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "omnitool_tool_launches_total",
		Help: "Tool launch attempts by tool id and result",
	}, []string{"tool", "result"})

	downloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "omnitool_downloads_total",
		Help: "Finished downloads by media kind and result",
	}, []string{"kind", "result"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "omnitool_download_duration_seconds",
		Help:    "Download duration in seconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"kind"})

	active := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "omnitool_active_operations",
		Help: "Background operations currently running by operation",
	}, []string{"operation"})

	compressions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "omnitool_compressions_total",
		Help: "Finished compression tasks by final status",
	}, []string{"status"})

	reg.MustRegister(launches, downloads, durs, active, compressions)

	return &Metrics{
		registry:         reg,
		ToolLaunches:     launches,
		Downloads:        downloads,
		DownloadDuration: durs,
		ActiveOps:        active,
		Compressions:     compressions,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLaunch counts a launch attempt. result is "ok", "not_found" or "error".
func (m *Metrics) RecordLaunch(toolID, result string) {
	if m == nil {
		return
	}
	if toolID == "" {
		toolID = "unknown"
	}
	m.ToolLaunches.WithLabelValues(toolID, result).Inc()
}

// RecordDownload records a finished download.
func (m *Metrics) RecordDownload(kind string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.Downloads.WithLabelValues(kind, result).Inc()
	m.DownloadDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCompression records the final status of a compression task.
func (m *Metrics) RecordCompression(status string) {
	if m == nil {
		return
	}
	m.Compressions.WithLabelValues(status).Inc()
}

// IncActive increments the active operation gauge.
func (m *Metrics) IncActive(operation string) {
	if m == nil {
		return
	}
	m.ActiveOps.WithLabelValues(operation).Inc()
}

// DecActive decrements the active operation gauge.
func (m *Metrics) DecActive(operation string) {
	if m == nil {
		return
	}
	m.ActiveOps.WithLabelValues(operation).Dec()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
