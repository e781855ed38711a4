package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reel-digest/domain/summary"
)

// Metrics holds Prometheus collectors for the summarizer and its webhook.
type Metrics struct {
	registry         *prometheus.Registry
	summariesTotal   *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	framesSampled    prometheus.Histogram
	requestsTotal    prometheus.Counter
	errorsTotal      prometheus.Counter
	inFlight         prometheus.Gauge
}

// New creates and registers Prometheus metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	summariesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reel_digest_summaries_total",
		Help: "Total number of summarize requests by outcome",
	}, []string{"outcome"})
	pipelineDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reel_digest_pipeline_duration_seconds",
		Help:    "Time from download start to final result",
		Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160, 320},
	})
	framesSampled := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reel_digest_frames_sampled",
		Help:    "Number of frames sent to the model per request",
		Buckets: prometheus.ExponentialBuckets(1, 2, 9),
	})
	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reel_digest_webhook_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reel_digest_webhook_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reel_digest_messages_in_flight",
		Help: "Number of inbound messages currently being processed",
	})

	registry.MustRegister(
		summariesTotal,
		pipelineDuration,
		framesSampled,
		requestsTotal,
		errorsTotal,
		inFlight,
	)

	return &Metrics{
		registry:         registry,
		summariesTotal:   summariesTotal,
		pipelineDuration: pipelineDuration,
		framesSampled:    framesSampled,
		requestsTotal:    requestsTotal,
		errorsTotal:      errorsTotal,
		inFlight:         inFlight,
	}
}

// ObserveSummary implements summary.Recorder.
func (m *Metrics) ObserveSummary(outcome summary.Outcome, elapsed time.Duration) {
	m.summariesTotal.WithLabelValues(string(outcome)).Inc()
	m.pipelineDuration.Observe(elapsed.Seconds())
}

// ObserveFrames implements summary.Recorder.
func (m *Metrics) ObserveFrames(n int) {
	m.framesSampled.Observe(float64(n))
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// MessageStarted and MessageDone track messages handed to background processing.
func (m *Metrics) MessageStarted() {
	m.inFlight.Inc()
}

func (m *Metrics) MessageDone() {
	m.inFlight.Dec()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Ensure Metrics implements summary.Recorder
var _ summary.Recorder = (*Metrics)(nil)
