package options

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/config"
	"github.com/chaty-app/chaty-e2e/internal/activation"
	"github.com/chaty-app/chaty-e2e/internal/assertion"
	"github.com/chaty-app/chaty-e2e/internal/authtoken"
	"github.com/chaty-app/chaty-e2e/internal/fixture"
	"github.com/chaty-app/chaty-e2e/internal/scheduler"
	"github.com/chaty-app/chaty-e2e/internal/step"
	"github.com/chaty-app/chaty-e2e/internal/suite"
)

// RunOptions holds every flag of the commands that execute suites.
type RunOptions struct {
	Suite     *SuiteOptions
	Fixture   *FixtureOptions
	Browser   *BrowserOptions
	Execution *ExecutionOptions
	Output    *OutputOptions
}

func NewRunOptions() *RunOptions {
	return &RunOptions{
		Suite:     NewSuiteOptions(),
		Fixture:   NewFixtureOptions(),
		Browser:   NewBrowserOptions(),
		Execution: NewExecutionOptions(),
		Output:    NewOutputOptions(),
	}
}

func (o *RunOptions) AddFlags(fs *pflag.FlagSet) {
	o.Suite.AddFlags(fs)
	o.Fixture.AddFlags(fs)
	o.Browser.AddFlags(fs)
	o.Execution.AddFlags(fs)
	o.Output.AddFlags(fs)
}

// Validate checks every option group and reports all problems at once.
func (o *RunOptions) Validate() error {
	return utilerrors.NewAggregate([]error{
		o.Suite.Validate(),
		o.Fixture.Validate(),
		o.Browser.Validate(),
		o.Execution.Validate(),
		o.Output.Validate(),
	})
}

// Config loads suites and fixtures. Every error it returns is a configuration
// error: nothing has run yet.
func (o *RunOptions) Config() (*config.RunConfig, error) {
	suites, err := o.Suite.Load()
	if err != nil {
		return nil, &fixture.ConfigError{Reason: "invalid suites", Err: err}
	}

	defaults, err := suite.MergeFixtures(suites)
	if err != nil {
		return nil, &fixture.ConfigError{Reason: "failed to merge suite fixtures", Err: err}
	}

	fixtures, err := fixture.Load(o.Fixture.Source(defaults))
	if err != nil {
		return nil, err
	}

	if err := checkFixtureReferences(suites, fixtures); err != nil {
		return nil, err
	}

	klog.V(2).Infof("Loaded %d suites, run %s against %s", len(suites), fixtures.RunID(), fixtures.BaseURL())

	var tokenSource authtoken.Source
	if o.Browser.AuthToken != "" {
		tokenSource = authtoken.StaticSource(o.Browser.AuthToken)
	}

	return &config.RunConfig{
		Suites:   suites,
		Fixtures: fixtures,
		Browser:  o.Browser.Config(),
		Step: step.Options{
			ElementTimeout: o.Execution.ElementTimeout,
			PollInterval:   o.Execution.PollInterval,
		},
		Assertion: assertion.Options{
			Timeout:  o.Execution.AssertTimeout,
			Interval: o.Execution.PollInterval,
		},
		Activation: activation.Options{
			BaseURL:     fixtures.BaseURL(),
			Timeout:     o.Execution.ActivationTimeout,
			TokenSource: tokenSource,
		},
		Scheduler: scheduler.Options{
			Workers: o.Execution.Workers,
		},
	}, nil
}

// checkFixtureReferences fails fast on fixtures a suite requires but the run
// does not define, before any browser is started.
func checkFixtureReferences(suites []*suite.Suite, fixtures *fixture.Registry) error {
	var errs []error

	for _, s := range suites {
		for _, key := range s.Requires {
			if _, err := fixtures.Get(key); err != nil {
				errs = append(errs, errors.Wrapf(err, "suite %s", s.Name))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return &fixture.ConfigError{Reason: "missing fixtures", Err: utilerrors.NewAggregate(errs)}
}
