package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRemoteCall(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveRemoteCall("/projects", http.MethodPost, 200, 10*time.Millisecond)
	m.ObserveRemoteCall("/projects", http.MethodPost, 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("/projects", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("/projects", "POST", "error")))
}

func TestObserveOutcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveSave(OutcomeOK)
	m.ObserveSave(OutcomePartial)
	m.ObserveSave(OutcomePartial)
	m.ObserveSchedule(OutcomeFailed)
	m.ObserveRetry("/gantt-chart")
	m.ObserveError("SYNC-002", "gateway")
	m.ObserveError("", "gateway")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Saves.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Saves.WithLabelValues(OutcomePartial)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScheduleRequests.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteRetries.WithLabelValues("/gantt-chart")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Errors))
}

func TestObserveProjection(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveProjection(0)
	m.ObserveProjection(12)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TimelineProjections.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TimelineProjections.WithLabelValues("ok")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRemoteCall("/projects", "GET", 200, time.Second)
		m.ObserveRetry("/projects")
		m.ObserveSave(OutcomeOK)
		m.ObserveSchedule(OutcomeOK)
		m.ObserveProjection(3)
		m.ObserveHTTP("/api/timeline", 200, time.Second)
		m.ObserveError("X", "y")
	})
}

func TestRegistryHandler(t *testing.T) {
	reg, m := NewRegistry()
	m.ObserveHTTP("/api/timeline", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `planboard_http_requests_total{code="200",route="/api/timeline"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
