package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for saves and schedule requests
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
	OutcomePartial = "partial"
)

// Metrics holds all Prometheus metrics for planboard. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Scheduler service calls
	RemoteCalls   *prometheus.CounterVec
	RemoteLatency *prometheus.HistogramVec
	RemoteRetries *prometheus.CounterVec

	// Save and schedule sequences
	Saves            *prometheus.CounterVec
	ScheduleRequests *prometheus.CounterVec

	// Timeline projection
	TimelineProjections *prometheus.CounterVec
	TimelineBars        prometheus.Histogram

	// Backend-for-frontend HTTP requests
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_remote_calls_total",
				Help: "Total number of scheduler service calls",
			},
			[]string{"endpoint", "method", "status"},
		),
		RemoteLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planboard_remote_latency_seconds",
				Help:    "Scheduler service call latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint", "method"},
		),
		RemoteRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_remote_retries_total",
				Help: "Total number of retried scheduler service reads",
			},
			[]string{"endpoint"},
		),

		Saves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_saves_total",
				Help: "Total number of project saves by outcome",
			},
			[]string{"outcome"},
		),
		ScheduleRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_schedule_requests_total",
				Help: "Total number of schedule computations by outcome",
			},
			[]string{"outcome"},
		),

		TimelineProjections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_timeline_projections_total",
				Help: "Total number of timeline projections",
			},
			[]string{"result"},
		),
		TimelineBars: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "planboard_timeline_bars",
				Help:    "Number of bars per projected timeline",
				Buckets: []float64{1, 5, 10, 20, 50, 100, 200},
			},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planboard_http_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planboard_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// ObserveRemoteCall records one scheduler service call. Status 0 means the
// request never got a response.
func (m *Metrics) ObserveRemoteCall(endpoint, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RemoteCalls.WithLabelValues(endpoint, method, label).Inc()
	m.RemoteLatency.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

// ObserveRetry records a retried read
func (m *Metrics) ObserveRetry(endpoint string) {
	if m == nil {
		return
	}
	m.RemoteRetries.WithLabelValues(endpoint).Inc()
}

// ObserveSave records the outcome of a save sequence
func (m *Metrics) ObserveSave(outcome string) {
	if m == nil {
		return
	}
	m.Saves.WithLabelValues(outcome).Inc()
}

// ObserveSchedule records the outcome of a schedule request
func (m *Metrics) ObserveSchedule(outcome string) {
	if m == nil {
		return
	}
	m.ScheduleRequests.WithLabelValues(outcome).Inc()
}

// ObserveProjection records a timeline projection of n bars. n == 0 counts
// as an empty timeline.
func (m *Metrics) ObserveProjection(n int) {
	if m == nil {
		return
	}
	if n == 0 {
		m.TimelineProjections.WithLabelValues("empty").Inc()
		return
	}
	m.TimelineProjections.WithLabelValues("ok").Inc()
	m.TimelineBars.Observe(float64(n))
}

// ObserveHTTP records one served HTTP request
func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveError records a structured error by code
func (m *Metrics) ObserveError(code, component string) {
	if m == nil || code == "" {
		return
	}
	m.Errors.WithLabelValues(code, component).Inc()
}
