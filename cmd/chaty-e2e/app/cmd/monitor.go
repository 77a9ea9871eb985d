package cmd

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app"
	"github.com/chaty-app/chaty-e2e/internal/monitor"
	"github.com/chaty-app/chaty-e2e/internal/report"
	"github.com/chaty-app/chaty-e2e/internal/session"
)

type monitorOptions struct {
	*runOptions

	interval    time.Duration
	metricsAddr string
	watch       bool
	debounce    time.Duration
}

func (o *monitorOptions) addFlags(fs *pflag.FlagSet) {
	o.runOptions.AddFlags(fs)
	fs.DurationVar(&o.interval, "interval", o.interval, "time between scheduled runs")
	fs.StringVar(&o.metricsAddr, "metrics-addr", o.metricsAddr, "address serving /metrics, /healthz and /report; empty disables")
	fs.BoolVar(&o.watch, "watch", o.watch, "re-run when suite or fixture files change")
	fs.DurationVar(&o.debounce, "debounce", o.debounce, "quiet period after a file change before re-running")
}

// NewMonitorCmd creates the monitor command.
func NewMonitorCmd() *cobra.Command {
	opts := &monitorOptions{
		runOptions:  newRunOptions(),
		interval:    5 * time.Minute,
		metricsAddr: ":9464",
		watch:       true,
		debounce:    500 * time.Millisecond,
	}
	opts.Output.Progress = false

	cmd := &cobra.Command{
		Use:   "monitor [SUITE]...",
		Short: "Run suites continuously and export the results as metrics",
		Long: `Run suites immediately, then on every interval and whenever a suite file
changes. Suites and fixtures are reloaded for each run, so every run gets fresh
seed data. Runs never overlap.

Examples:
  chaty-e2e monitor suites/ --base-url http://localhost:3000 --interval 10m`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Suite.Paths = append(opts.Suite.Paths, args...)
			return runMonitor(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	opts.addFlags(cmd.Flags())

	return cmd
}

func runMonitor(ctx context.Context, opts *monitorOptions, stdout io.Writer) error {
	if err := opts.Validate(); err != nil {
		return configError(err)
	}

	// one browser serves every run
	if opts.factory == nil {
		factory, cleanup, err := app.LaunchBrowser(opts.Browser.Config())
		if err != nil {
			return configError(err)
		}

		defer func() {
			if err := cleanup(); err != nil {
				klog.Errorf("Failed to stop browser: %v", err)
			}
		}()

		opts.factory = factory
	}

	run := newMonitorRun(opts, opts.factory, stdout)

	var watch []string
	if opts.watch {
		watch = append(watch, opts.Suite.Paths...)
		if opts.Fixture.File != "" {
			watch = append(watch, opts.Fixture.File)
		}
	}

	return monitor.New(monitor.Options{
		Interval:    opts.interval,
		Watch:       watch,
		Debounce:    opts.debounce,
		MetricsAddr: opts.metricsAddr,
	}, run, nil).Start(ctx)
}

func newMonitorRun(opts *monitorOptions, factory session.Factory, stdout io.Writer) monitor.RunFunc {
	return func(ctx context.Context) (*report.Report, error) {
		c, err := opts.Config()
		if err != nil {
			return nil, err
		}

		a, err := app.NewBuilder().
			WithConfig(c).
			WithSessionFactory(factory).
			WithActivationSource(opts.activation).
			Build()
		if err != nil {
			return nil, err
		}

		r := a.Run(ctx)

		if err := writeReport(r, opts.Output, stdout); err != nil {
			klog.Errorf("Failed to write report: %v", err)
		}

		return r, nil
	}
}
