// Package metrics exposes run outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chaty-app/chaty-e2e/internal/report"
)

const (
	Namespace = "chaty_e2e"

	LabelSuite  = "suite"
	LabelStatus = "status"
	LabelResult = "result"

	ResultPassed = "passed"
	ResultFailed = "failed"
	ResultError  = "error"
)

type Metrics struct {
	Registry *prometheus.Registry

	ScenariosTotal   *prometheus.CounterVec
	ScenarioDuration *prometheus.HistogramVec
	RunsTotal        *prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge
	LastRunScenarios *prometheus.GaugeVec

	mu   sync.RWMutex
	last *report.Report
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		ScenariosTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scenarios_total",
			Help:      "Scenarios executed by suite and outcome",
		}, []string{LabelSuite, LabelStatus}),
		ScenarioDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Wall time of executed scenarios",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{LabelSuite}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Suite runs by result",
		}, []string{LabelResult}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		LastRunScenarios: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_scenarios",
			Help:      "Scenario counts of the last run by outcome",
		}, []string{LabelStatus}),
	}
}

// ScenarioFinished records one scenario outcome.
func (m *Metrics) ScenarioFinished(res report.ScenarioResult) {
	m.ScenariosTotal.WithLabelValues(res.Suite, string(res.Status)).Inc()

	if res.Status != report.StatusSkipped {
		m.ScenarioDuration.WithLabelValues(res.Suite).Observe(float64(res.DurationMs) / 1000)
	}
}

// RunFinished records a completed run.
func (m *Metrics) RunFinished(r *report.Report) {
	result := ResultPassed
	if !r.OK() {
		result = ResultFailed
	}

	m.RunsTotal.WithLabelValues(result).Inc()
	m.LastRunTimestamp.SetToCurrentTime()
	m.LastRunScenarios.WithLabelValues(string(report.StatusPassed)).Set(float64(r.Passed))
	m.LastRunScenarios.WithLabelValues(string(report.StatusFailed)).Set(float64(r.Failed))
	m.LastRunScenarios.WithLabelValues(string(report.StatusSkipped)).Set(float64(r.Skipped))

	m.mu.Lock()
	m.last = r
	m.mu.Unlock()
}

// RunErrored records a run that could not start, e.g. on a config error.
func (m *Metrics) RunErrored() {
	m.RunsTotal.WithLabelValues(ResultError).Inc()
}

// LastReport returns the report of the last finished run, if any.
func (m *Metrics) LastReport() *report.Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.last
}

// Handler serves /metrics, /healthz and /report.
func (m *Metrics) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	r.GET("/healthz", func(c *gin.Context) {
		last := m.LastReport()

		switch {
		case last == nil:
			c.JSON(http.StatusOK, gin.H{"status": "pending"})
		case last.OK():
			c.JSON(http.StatusOK, gin.H{"status": "ok", "passed": last.Passed, "total": last.Total})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "failing", "passed": last.Passed, "failed": last.Failed, "skipped": last.Skipped, "total": last.Total,
			})
		}
	})

	r.GET("/report", func(c *gin.Context) {
		last := m.LastReport()
		if last == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no run finished yet"})
			return
		}

		c.JSON(http.StatusOK, last)
	})

	return r
}
