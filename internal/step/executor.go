// Package step executes individual suite steps against a session.
package step

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/chaty-app/chaty-e2e/internal/assertion"
	"github.com/chaty-app/chaty-e2e/internal/session"
	"github.com/chaty-app/chaty-e2e/internal/suite"
	"github.com/chaty-app/chaty-e2e/internal/util"
)

// ActivationSource resolves the activation token issued to a user.
type ActivationSource interface {
	Token(ctx context.Context, username string) (string, error)
}

type Options struct {
	// ElementTimeout bounds how long Fill and Click wait for their target.
	ElementTimeout time.Duration
	PollInterval   time.Duration
}

var DefaultOptions = Options{
	ElementTimeout: 5 * time.Second,
	PollInterval:   100 * time.Millisecond,
}

type Executor struct {
	opts       Options
	assertions *assertion.Evaluator
	activation ActivationSource
	clock      clock.Clock
}

// NewExecutor builds an executor. activation may be nil when no suite captures
// activation tokens; c defaults to the real clock.
func NewExecutor(opts Options, assertions *assertion.Evaluator, activation ActivationSource, c clock.Clock) *Executor {
	if opts.ElementTimeout == 0 {
		opts.ElementTimeout = DefaultOptions.ElementTimeout
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultOptions.PollInterval
	}

	if assertions == nil {
		assertions = assertion.NewEvaluator(assertion.Options{})
	}

	if c == nil {
		c = clock.RealClock{}
	}

	return &Executor{
		opts:       opts,
		assertions: assertions,
		activation: activation,
		clock:      c,
	}
}

// ExecuteAll runs steps in order and stops at the first failure.
func (e *Executor) ExecuteAll(ctx context.Context, steps []suite.Step, st *State) error {
	for i, s := range steps {
		if err := e.Execute(ctx, s, st); err != nil {
			kind, _ := s.Kind()
			return errors.Wrapf(err, "step %d (%s)", i+1, kind)
		}
	}

	return nil
}

// Execute runs a single step.
func (e *Executor) Execute(ctx context.Context, s suite.Step, st *State) error {
	kind, err := s.Kind()
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	data := st.Data()

	switch kind {
	case suite.KindNavigate:
		return e.navigate(ctx, st, data, s.Navigate)
	case suite.KindFill:
		loc, err := renderLocator(s.Fill.Locator, data)
		if err != nil {
			return err
		}

		value, err := util.RenderTemplate(s.Fill.Value, data, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to render value for %s", loc)
		}

		return e.act(ctx, st.Session, suite.KindFill, loc, func(ctx context.Context) error {
			return st.Session.Fill(ctx, loc, value)
		})
	case suite.KindClick:
		loc, err := renderLocator(*s.Click, data)
		if err != nil {
			return err
		}

		return e.act(ctx, st.Session, suite.KindClick, loc, func(ctx context.Context) error {
			return st.Session.Click(ctx, loc)
		})
	case suite.KindWaitFor:
		return e.sleep(ctx, s.WaitFor.Duration())
	case suite.KindAssertVisible:
		loc, err := renderLocator(*s.AssertVisible, data)
		if err != nil {
			return err
		}

		return e.assertions.AssertVisible(ctx, st.Session, loc)
	case suite.KindAssertURL:
		ref, err := util.RenderTemplate(s.AssertURL, data, nil)
		if err != nil {
			return errors.Wrap(err, "failed to render url")
		}

		expected, err := util.ResolveURL(st.Fixtures.BaseURL(), ref)
		if err != nil {
			return err
		}

		return e.assertions.AssertURL(ctx, st.Session, expected)
	case suite.KindCaptureActivation:
		return e.capture(ctx, st, data, s.CaptureActivation)
	}

	return errors.Errorf("unsupported step kind %q", kind)
}

func (e *Executor) navigate(ctx context.Context, st *State, data map[string]string, path string) error {
	ref, err := util.RenderTemplate(path, data, nil)
	if err != nil {
		return errors.Wrap(err, "failed to render path")
	}

	target, err := util.ResolveURL(st.Fixtures.BaseURL(), ref)
	if err != nil {
		return &NavigationError{URL: ref, Err: err}
	}

	klog.V(4).Infof("Navigating to %s", target)

	if err := st.Session.Goto(ctx, target); err != nil {
		return &NavigationError{URL: target, Err: err}
	}

	return nil
}

// act waits for loc to become visible, then performs action once. Errors of
// the action itself are not lookup failures.
func (e *Executor) act(ctx context.Context, s session.Session, kind suite.Kind, loc session.Locator, action func(context.Context) error) error {
	var lastErr error

	err := wait.PollUntilContextTimeout(ctx, e.opts.PollInterval, e.opts.ElementTimeout, true,
		func(ctx context.Context) (bool, error) {
			visible, err := s.IsVisible(ctx, loc)
			if err != nil {
				lastErr = err
				return false, nil
			}

			return visible, nil
		})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrapf(ctxErr, "waiting for %s", loc)
		}

		return &ElementNotFoundError{Locator: loc, Err: lastErr}
	}

	klog.V(4).Infof("Acting on %s", loc)

	if err := action(ctx); err != nil {
		return errors.Wrapf(err, "%s %s", kind, loc)
	}

	return nil
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	klog.V(4).Infof("Waiting %s", d)

	t := e.clock.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) capture(ctx context.Context, st *State, data map[string]string, c *suite.CaptureActivation) error {
	if e.activation == nil {
		return errors.New("no activation source configured")
	}

	username, err := util.RenderTemplate(c.Username, data, nil)
	if err != nil {
		return errors.Wrap(err, "failed to render username")
	}

	token, err := e.activation.Token(ctx, username)
	if err != nil {
		return errors.Wrapf(err, "failed to capture activation token for %s", username)
	}

	klog.V(4).Infof("Captured activation token for %s into %q", username, c.As)

	return st.SetVar(c.As, token)
}

func renderLocator(loc session.Locator, data map[string]string) (session.Locator, error) {
	fields := []*string{&loc.Label, &loc.Name, &loc.Text}
	for _, f := range fields {
		rendered, err := util.RenderTemplate(*f, data, nil)
		if err != nil {
			return loc, errors.Wrapf(err, "failed to render locator %s", loc)
		}

		*f = rendered
	}

	return loc.Normalize(), nil
}
