package framework

import (
	"context"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app"
	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/options"
	"github.com/chaty-app/chaty-e2e/internal/report"
	"github.com/chaty-app/chaty-e2e/internal/session"
)

// Runner runs the shipped suites against the configured application,
// reusing one browser for every run.
type Runner struct {
	cfg     *Config
	factory session.Factory
	cleanup func() error
}

func NewRunner(cfg *Config) (*Runner, error) {
	o := runOptions(cfg)

	factory, cleanup, err := app.LaunchBrowser(o.Browser.Config())
	if err != nil {
		return nil, err
	}

	return &Runner{cfg: cfg, factory: factory, cleanup: cleanup}, nil
}

// Run executes the suites with freshly rendered fixtures.
func (r *Runner) Run(ctx context.Context, suites ...string) (*report.Report, error) {
	o := runOptions(r.cfg)
	if len(suites) > 0 {
		o.Suite.Paths = suites
	}

	c, err := o.Config()
	if err != nil {
		return nil, err
	}

	a, err := app.NewBuilder().WithConfig(c).WithSessionFactory(r.factory).Build()
	if err != nil {
		return nil, err
	}

	return a.Run(ctx), nil
}

func (r *Runner) Close() error {
	return r.cleanup()
}

func runOptions(cfg *Config) *options.RunOptions {
	o := options.NewRunOptions()
	o.Suite.Paths = []string{cfg.SuitesDir}
	o.Fixture.BaseURL = cfg.BaseURL
	o.Fixture.File = cfg.FixturesFile
	o.Browser.Browser = cfg.Browser
	o.Browser.Headed = cfg.Headed
	o.Execution.Workers = cfg.Workers
	o.Output.Progress = false

	return o
}
