package monitor

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaty-app/chaty-e2e/internal/metrics"
	"github.com/chaty-app/chaty-e2e/internal/report"
)

func passingRun(calls *atomic.Int32) RunFunc {
	return func(context.Context) (*report.Report, error) {
		calls.Add(1)
		return report.New([]report.ScenarioResult{{Name: "a", Status: report.StatusPassed}}), nil
	}
}

func TestMonitorRunsOnInterval(t *testing.T) {
	var calls atomic.Int32

	m := metrics.New()
	mon := New(Options{Interval: 50 * time.Millisecond}, passingRun(&calls), m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- mon.Start(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.RunsTotal.WithLabelValues(metrics.ResultPassed)), 2.0)
	assert.NotNil(t, m.LastReport())
}

func TestMonitorRunsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "login.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: login\n"), 0o644))

	var calls atomic.Int32

	mon := New(Options{Interval: time.Hour, Watch: []string{dir}, Debounce: 20 * time.Millisecond}, passingRun(&calls), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- mon.Start(ctx) }()

	// the immediate run
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(file, []byte("name: login2\n"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunOnceRecordsErrors(t *testing.T) {
	m := metrics.New()
	mon := New(Options{}, func(context.Context) (*report.Report, error) {
		return nil, errors.New("config error")
	}, m)

	mon.runOnce(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(metrics.ResultError)))
	assert.Nil(t, m.LastReport())
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	var changes atomic.Int32

	w, err := NewWatcher([]string{file, filepath.Join(dir, "missing.yaml")}, 100*time.Millisecond, func() { changes.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, []string{file}, w.Paths())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Run(ctx) }()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte{byte('a' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return changes.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load())
}
