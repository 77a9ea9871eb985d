package app

import (
	"context"

	"github.com/pkg/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/config"
	"github.com/chaty-app/chaty-e2e/internal/activation"
	"github.com/chaty-app/chaty-e2e/internal/assertion"
	"github.com/chaty-app/chaty-e2e/internal/report"
	"github.com/chaty-app/chaty-e2e/internal/scheduler"
	"github.com/chaty-app/chaty-e2e/internal/session"
	"github.com/chaty-app/chaty-e2e/internal/session/pwsession"
	"github.com/chaty-app/chaty-e2e/internal/step"
)

// FactoryFunc starts whatever backs sessions and returns a cleanup func.
type FactoryFunc func(opts pwsession.Options) (session.Factory, func() error, error)

// LaunchBrowser is the default FactoryFunc.
func LaunchBrowser(opts pwsession.Options) (session.Factory, func() error, error) {
	l, err := pwsession.Launch(opts)
	if err != nil {
		return nil, nil, err
	}

	return l, l.Close, nil
}

// Builder wires a run together.
type Builder struct {
	config     *config.RunConfig
	factory    session.Factory
	newFactory FactoryFunc
	activation step.ActivationSource
	observers  []scheduler.Observer
}

func NewBuilder() *Builder {
	return &Builder{newFactory: LaunchBrowser}
}

func (b *Builder) WithConfig(c *config.RunConfig) *Builder {
	b.config = c
	return b
}

// WithSessionFactory uses f instead of launching a browser.
func (b *Builder) WithSessionFactory(f session.Factory) *Builder {
	b.factory = f
	return b
}

func (b *Builder) WithFactoryFunc(f FactoryFunc) *Builder {
	b.newFactory = f
	return b
}

func (b *Builder) WithActivationSource(a step.ActivationSource) *Builder {
	b.activation = a
	return b
}

func (b *Builder) WithObserver(o scheduler.Observer) *Builder {
	if o != nil {
		b.observers = append(b.observers, o)
	}

	return b
}

func (b *Builder) Build() (*App, error) {
	if b.config == nil {
		return nil, errors.New("run config is required")
	}

	a := &App{config: b.config}

	factory := b.factory
	if factory == nil {
		f, cleanup, err := b.newFactory(b.config.Browser)
		if err != nil {
			return nil, errors.Wrap(err, "failed to start browser")
		}

		factory = f
		a.closers = append(a.closers, cleanup)
	}

	src := b.activation
	if src == nil {
		src = activation.NewClient(b.config.Activation)
	}

	executor := step.NewExecutor(b.config.Step, assertion.NewEvaluator(b.config.Assertion), src, nil)
	a.scheduler = scheduler.New(b.config.Scheduler, factory, executor, b.config.Fixtures, b.observers...)

	return a, nil
}

// App is one prepared run.
type App struct {
	config    *config.RunConfig
	scheduler *scheduler.Scheduler
	closers   []func() error
}

func (a *App) Run(ctx context.Context) *report.Report {
	return a.scheduler.Run(ctx, a.config.Suites)
}

// Close releases the browser, if the app started one.
func (a *App) Close() error {
	var errs []error

	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		klog.Errorf("Failed to release resources: %v", errs)
	}

	return utilerrors.NewAggregate(errs)
}
