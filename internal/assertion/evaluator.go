// Package assertion evaluates visibility and url conditions against a live
// session. Conditions are polled because the page updates asynchronously after
// navigation and form submission.
package assertion

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/internal/session"
	"github.com/chaty-app/chaty-e2e/internal/util"
)

// AssertionError reports an expected-vs-observed mismatch.
type AssertionError struct {
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// Options bounds every poll.
type Options struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultOptions mirrors the default expect timeout of the browser engine.
var DefaultOptions = Options{
	Timeout:  5 * time.Second,
	Interval: 100 * time.Millisecond,
}

func applyDefaults(opts *Options) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultOptions.Timeout
	}

	if opts.Interval == 0 {
		opts.Interval = DefaultOptions.Interval
	}
}

type Evaluator struct {
	opts Options
}

func NewEvaluator(opts Options) *Evaluator {
	applyDefaults(&opts)
	return &Evaluator{opts: opts}
}

// AssertVisible waits until an element matching loc is visible.
func (e *Evaluator) AssertVisible(ctx context.Context, s session.Session, loc session.Locator) error {
	loc = loc.Normalize()

	err := e.poll(ctx, func(ctx context.Context) (bool, error) {
		visible, err := s.IsVisible(ctx, loc)
		if err != nil {
			klog.V(4).Infof("Transient error checking %s: %v", loc, err)
			return false, nil
		}

		return visible, nil
	})
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrapf(ctxErr, "waiting for %s", loc)
	}

	return &AssertionError{
		Expected: fmt.Sprintf("%s to be visible", loc),
		Actual:   "not found",
	}
}

// AssertURL waits until the session url equals expected.
func (e *Evaluator) AssertURL(ctx context.Context, s session.Session, expected string) error {
	var current string

	err := e.poll(ctx, func(ctx context.Context) (bool, error) {
		current = s.URL()
		return util.SameURL(current, expected), nil
	})
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrapf(ctxErr, "waiting for url %s", expected)
	}

	return &AssertionError{
		Expected: fmt.Sprintf("url %s", expected),
		Actual:   current,
	}
}

func (e *Evaluator) poll(ctx context.Context, cond wait.ConditionWithContextFunc) error {
	return wait.PollUntilContextTimeout(ctx, e.opts.Interval, e.opts.Timeout, true, cond)
}
