package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	m.Handler().ServeHTTP(metricsRec, metricsReq)
	require.Equal(t, http.StatusOK, metricsRec.Code)

	body := metricsRec.Body.String()
	assert.True(t, strings.Contains(body, "stationhub_http_requests_total"), "request counter exported")
	assert.True(t, strings.Contains(body, `code="418"`), "status code labelled")
}

func TestDomainCounters(t *testing.T) {
	m := NewMetrics()
	m.RosterPublished()
	m.AnalysisRun("done")
	m.AnalysisRun("failed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "stationhub_roster_publishes_total 1")
	assert.Contains(t, body, `stationhub_analysis_runs_total{outcome="done"} 1`)
	assert.Contains(t, body, `stationhub_analysis_runs_total{outcome="failed"} 1`)
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.RosterPublished()
	m.AnalysisRun("done")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	passthrough := m.Middleware(next)
	okRec := httptest.NewRecorder()
	passthrough.ServeHTTP(okRec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, okRec.Code)
}
