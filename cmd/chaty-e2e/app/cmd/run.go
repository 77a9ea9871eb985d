package cmd

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app"
	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/config"
	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/options"
	"github.com/chaty-app/chaty-e2e/internal/report"
	"github.com/chaty-app/chaty-e2e/internal/scheduler"
	"github.com/chaty-app/chaty-e2e/internal/session"
	"github.com/chaty-app/chaty-e2e/internal/step"
)

type runOptions struct {
	*options.RunOptions

	// set by tests to run without a browser or a live application
	factory    session.Factory
	activation step.ActivationSource
}

func newRunOptions() *runOptions {
	return &runOptions{RunOptions: options.NewRunOptions()}
}

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	opts := newRunOptions()

	cmd := &cobra.Command{
		Use:   "run [SUITE]...",
		Short: "Run suites against a live application",
		Long: `Run every scenario of the given suites and print a report.

Exit codes:
  0  all scenarios passed
  1  at least one scenario failed or was skipped
  2  configuration error, nothing ran

Examples:
  # Run all suites against a local instance
  chaty-e2e run suites/ --base-url http://localhost:3000

  # Run with four workers and keep a JSON report
  chaty-e2e run suites/ --base-url http://localhost:3000 -w 4 -o json --output report.json

  # Override seed data
  chaty-e2e run suites/login.yaml --fixture password=hunter22hunter22`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Suite.Paths = append(opts.Suite.Paths, args...)
			return runRun(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	opts.AddFlags(cmd.Flags())

	return cmd
}

func runRun(ctx context.Context, opts *runOptions, stdout, stderr io.Writer) error {
	if err := opts.Validate(); err != nil {
		return configError(err)
	}

	c, err := opts.Config()
	if err != nil {
		return configError(err)
	}

	r, err := execute(ctx, opts, c, stderr)
	if err != nil {
		return configError(err)
	}

	if err := writeReport(r, opts.Output, stdout); err != nil {
		return configError(err)
	}

	if !r.OK() {
		return &ExitError{Code: ExitFailed}
	}

	return nil
}

func execute(ctx context.Context, opts *runOptions, c *config.RunConfig, stderr io.Writer) (*report.Report, error) {
	b := app.NewBuilder().
		WithConfig(c).
		WithSessionFactory(opts.factory).
		WithActivationSource(opts.activation)

	var progress *app.Progress
	if opts.Output.Progress {
		progress = app.NewProgress(scheduler.CountScenarios(c.Suites), stderr)
		b.WithObserver(progress)
	}

	a, err := b.Build()
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := a.Close(); err != nil {
			klog.Errorf("Failed to close run: %v", err)
		}
	}()

	r := a.Run(ctx)

	if progress != nil {
		progress.Finish()
	}

	return r, nil
}

// writeReport prints the report in the requested format, or writes it to a
// file and prints the text summary.
func writeReport(r *report.Report, o *options.OutputOptions, stdout io.Writer) error {
	data, err := report.Render(r, o.Format)
	if err != nil {
		return err
	}

	if o.File == "" {
		_, err = stdout.Write(data)
		return errors.Wrap(err, "failed to write report")
	}

	if err := os.WriteFile(o.File, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write report to %s", o.File)
	}

	_, err = io.WriteString(stdout, report.Text(r))

	return errors.Wrap(err, "failed to write report")
}
