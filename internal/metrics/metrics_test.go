package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaty-app/chaty-e2e/internal/report"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestScenarioFinished(t *testing.T) {
	m := New()

	m.ScenarioFinished(report.ScenarioResult{Suite: "login", Status: report.StatusPassed, DurationMs: 1500})
	m.ScenarioFinished(report.ScenarioResult{Suite: "login", Status: report.StatusFailed, DurationMs: 5000})
	m.ScenarioFinished(report.ScenarioResult{Suite: "login", Status: report.StatusSkipped})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScenariosTotal.WithLabelValues("login", "passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScenariosTotal.WithLabelValues("login", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScenariosTotal.WithLabelValues("login", "skipped")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ScenarioDuration))
}

func TestRunFinishedAndHandler(t *testing.T) {
	m := New()
	h := m.Handler()

	w := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pending")
	assert.Equal(t, http.StatusNotFound, get(t, h, "/report").Code)

	failing := report.New([]report.ScenarioResult{
		{Name: "a", Status: report.StatusPassed},
		{Name: "b", Status: report.StatusFailed, Reason: "boom"},
	})
	m.RunFinished(failing)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LastRunScenarios.WithLabelValues("failed")))

	w = get(t, h, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = get(t, h, "/report")
	require.Equal(t, http.StatusOK, w.Code)

	var got report.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Failed)

	m.RunFinished(report.New([]report.ScenarioResult{{Name: "a", Status: report.StatusPassed}}))
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)

	m.RunErrored()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(ResultError)))

	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "chaty_e2e_runs_total"))
}
