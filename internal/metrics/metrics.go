// Package metrics exposes run progress as Prometheus collectors.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rzbill/nexmark/internal/event"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

// Metrics holds the collectors for one run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	reg *prometheus.Registry

	EventsEmitted *prometheus.CounterVec
	FramesFlushed prometheus.Counter
	FrameBytes    prometheus.Counter
	FlushLatency  prometheus.Histogram
	PacerWait     prometheus.Histogram
	PacerBehind   prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nexmark_events_emitted_total",
			Help: "Events handed to the encoder by type",
		}, []string{"type"}),
		FramesFlushed: f.NewCounter(prometheus.CounterOpts{
			Name: "nexmark_frames_flushed_total",
			Help: "Binary frames written to the sink",
		}),
		FrameBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "nexmark_frame_bytes_total",
			Help: "Binary frame payload bytes written to the sink, excluding headers",
		}),
		FlushLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nexmark_frame_flush_duration_seconds",
			Help:    "Time spent writing and flushing one frame",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PacerWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nexmark_pacer_wait_seconds",
			Help:    "Time slept before releasing an event",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 1},
		}),
		PacerBehind: f.NewCounter(prometheus.CounterOpts{
			Name: "nexmark_pacer_behind_total",
			Help: "Events released after their target time",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveEvent counts one emitted event.
func (m *Metrics) ObserveEvent(t event.Type) {
	if m != nil {
		m.EventsEmitted.WithLabelValues(t.String()).Inc()
	}
}

// ObserveFlush records one binary frame.
func (m *Metrics) ObserveFlush(payloadBytes int, elapsed time.Duration) {
	if m != nil {
		m.FramesFlushed.Inc()
		m.FrameBytes.Add(float64(payloadBytes))
		m.FlushLatency.Observe(elapsed.Seconds())
	}
}

// ObserveWait records a pacer sleep.
func (m *Metrics) ObserveWait(d time.Duration) {
	if m != nil {
		m.PacerWait.Observe(d.Seconds())
	}
}

// ObserveLate records an event released behind schedule.
func (m *Metrics) ObserveLate(time.Duration) {
	if m != nil {
		m.PacerBehind.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Serve listens on addr and serves /metrics until ctx is done. The bound
// address is returned once the listener is up.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logpkg.Logger) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", logpkg.Err(err))
		}
	}()
	logger.Info("metrics listening", logpkg.Str("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}
