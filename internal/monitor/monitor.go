// Package monitor re-runs suites on a schedule and when suite files change,
// publishing outcomes as metrics.
package monitor

import (
	"context"
	"net/http"
	"time"

	gocron "github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/internal/metrics"
	"github.com/chaty-app/chaty-e2e/internal/report"
)

// RunFunc performs one full run.
type RunFunc func(ctx context.Context) (*report.Report, error)

type Options struct {
	Interval time.Duration
	// Watch lists suite files or directories whose changes trigger a run.
	Watch    []string
	Debounce time.Duration
	// MetricsAddr is where metrics are served; empty disables the server.
	MetricsAddr string
}

type Monitor struct {
	opts    Options
	run     RunFunc
	metrics *metrics.Metrics
}

func New(opts Options, run RunFunc, m *metrics.Metrics) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}

	if m == nil {
		m = metrics.New()
	}

	return &Monitor{opts: opts, run: run, metrics: m}
}

// Start runs immediately, then on every interval and on file changes, until
// ctx is cancelled. Runs never overlap.
func (m *Monitor) Start(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrap(err, "failed to init cron scheduler")
	}

	job, err := s.NewJob(
		gocron.DurationJob(m.opts.Interval),
		gocron.NewTask(m.runOnce, ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return errors.Wrap(err, "failed to add suite run job")
	}

	g, ctx := errgroup.WithContext(ctx)

	if len(m.opts.Watch) > 0 {
		w, err := NewWatcher(m.opts.Watch, m.opts.Debounce, func() {
			klog.Infof("Suite files changed, triggering a run")

			if err := job.RunNow(); err != nil {
				klog.Errorf("Failed to trigger run: %v", err)
			}
		})
		if err != nil {
			return err
		}

		g.Go(func() error { return w.Run(ctx) })
	}

	if m.opts.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              m.opts.MetricsAddr,
			Handler:           m.metrics.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			klog.Infof("Serving metrics on %s", m.opts.MetricsAddr)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server failed")
			}

			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		})
	}

	s.Start()
	klog.Infof("Monitoring every %s", m.opts.Interval)

	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		klog.Errorf("Failed to shutdown cron scheduler: %v", err)
	}

	return g.Wait()
}

func (m *Monitor) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	r, err := m.run(ctx)
	if err != nil {
		klog.Errorf("Run failed: %v", err)
		m.metrics.RunErrored()

		return
	}

	m.metrics.RunFinished(r)
	klog.Infof("Run finished: %d/%d scenarios passed", r.Passed, r.Total)
}
