// Package scheduler runs suites: it groups scenarios into units, dispatches
// them to a bounded pool of workers and aggregates the outcomes.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/util/workqueue"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	"github.com/chaty-app/chaty-e2e/internal/assertion"
	"github.com/chaty-app/chaty-e2e/internal/fixture"
	"github.com/chaty-app/chaty-e2e/internal/report"
	"github.com/chaty-app/chaty-e2e/internal/session"
	"github.com/chaty-app/chaty-e2e/internal/step"
	"github.com/chaty-app/chaty-e2e/internal/suite"
)

// CauseCancelled is the skip cause of scenarios that never ran because the run was cancelled.
const CauseCancelled = "run cancelled"

// GroupState is the lifecycle of a serial group.
type GroupState string

const (
	GroupPending   GroupState = "Pending"
	GroupRunning   GroupState = "Running"
	GroupCompleted GroupState = "Completed"
	GroupAborted   GroupState = "Aborted"
)

// Observer is notified as scenarios finish. Calls are serialized.
type Observer interface {
	ScenarioFinished(result report.ScenarioResult)
}

type Options struct {
	// Workers is the number of units run concurrently.
	Workers int
}

type Scheduler struct {
	opts      Options
	factory   session.Factory
	executor  *step.Executor
	fixtures  *fixture.Registry
	clock     clock.PassiveClock
	observers []Observer

	observerMu sync.Mutex
}

func New(opts Options, factory session.Factory, executor *step.Executor, fixtures *fixture.Registry, observers ...Observer) *Scheduler {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Scheduler{
		opts:      opts,
		factory:   factory,
		executor:  executor,
		fixtures:  fixtures,
		clock:     clock.RealClock{},
		observers: observers,
	}
}

// Run executes every scenario of suites exactly once. Results are listed in
// declared order regardless of how workers interleave.
func (s *Scheduler) Run(ctx context.Context, suites []*suite.Suite) *report.Report {
	start := s.clock.Now()
	units := Plan(suites)
	results := make([]report.ScenarioResult, CountScenarios(suites))

	klog.Infof("Running %d scenarios in %d units with %d workers", len(results), len(units), s.opts.Workers)

	queue := workqueue.NewTyped[int]()
	for i := range units {
		queue.Add(i)
	}

	// Workers drain the queue and exit once it is empty.
	queue.ShutDown()

	var g errgroup.Group

	for w := 0; w < s.opts.Workers; w++ {
		g.Go(func() error {
			for s.processNextUnit(ctx, queue, units, results) {
			}

			return nil
		})
	}

	_ = g.Wait()

	r := report.New(results)
	r.StartedAt = start
	r.Duration = s.clock.Since(start).Round(time.Millisecond).String()

	if s.fixtures != nil {
		r.RunID = s.fixtures.RunID()
		r.BaseURL = s.fixtures.BaseURL()
	}

	klog.Infof("Run finished: %d passed, %d failed, %d skipped", r.Passed, r.Failed, r.Skipped)

	return r
}

func (s *Scheduler) processNextUnit(ctx context.Context, queue workqueue.TypedInterface[int], units []Unit, results []report.ScenarioResult) bool {
	i, quit := queue.Get()
	if quit {
		return false
	}
	defer queue.Done(i)

	s.runUnit(ctx, units[i], func(pos int, res report.ScenarioResult) {
		results[units[i].indices[pos]] = res
		s.notify(res)
	})

	return true
}

func (s *Scheduler) runUnit(ctx context.Context, u Unit, record func(pos int, res report.ScenarioResult)) {
	state := GroupPending
	name := unitName(u)

	skipRest := func(from int, cause string) {
		for pos := from; pos < len(u.Scenarios); pos++ {
			res := s.baseResult(u, pos)
			res.Status = report.StatusSkipped
			res.Cause = cause
			record(pos, res)
		}
	}

	if ctx.Err() != nil {
		skipRest(0, CauseCancelled)
		return
	}

	sess, err := s.factory.NewSession(ctx)
	if err != nil {
		res := s.baseResult(u, 0)
		res.Status = report.StatusFailed
		res.Reason = errors.Wrap(err, "failed to create session").Error()
		record(0, res)
		skipRest(1, failedCause(u.Scenarios[0].Name))
		klog.Errorf("Unit %s aborted: %v", name, err)

		return
	}

	defer func() {
		if err := sess.Close(); err != nil {
			klog.Errorf("Failed to close session of %s: %v", name, err)
		}
	}()

	st := step.NewState(sess, s.fixtures)
	state = transition(name, state, GroupRunning)

	for pos, sc := range u.Scenarios {
		if ctx.Err() != nil {
			skipRest(pos, CauseCancelled)
			transition(name, state, GroupAborted)

			return
		}

		res := s.runScenario(ctx, u, pos, st)
		record(pos, res)

		switch res.Status {
		case report.StatusSkipped:
			skipRest(pos+1, res.Cause)
			transition(name, state, GroupAborted)

			return
		case report.StatusFailed:
			skipRest(pos+1, failedCause(sc.Name))
			transition(name, state, GroupAborted)

			return
		}
	}

	transition(name, state, GroupCompleted)
}

func (s *Scheduler) runScenario(ctx context.Context, u Unit, pos int, st *step.State) report.ScenarioResult {
	sc := u.Scenarios[pos]
	res := s.baseResult(u, pos)
	start := s.clock.Now()

	klog.V(2).Infof("Running scenario %s", res.ID())

	steps := make([]suite.Step, 0, len(u.Suite.BeforeEach)+len(sc.Steps))
	steps = append(steps, u.Suite.BeforeEach...)
	steps = append(steps, sc.Steps...)

	err := s.executor.ExecuteAll(ctx, steps, st)
	res.DurationMs = s.clock.Since(start).Milliseconds()

	switch {
	case err == nil:
		res.Status = report.StatusPassed
	case ctx.Err() != nil:
		res.Status = report.StatusSkipped
		res.Cause = CauseCancelled
	default:
		res.Status = report.StatusFailed
		res.Reason = err.Error()

		var assertErr *assertion.AssertionError
		if errors.As(err, &assertErr) {
			res.Expected = assertErr.Expected
			res.Actual = assertErr.Actual
		}

		klog.V(2).Infof("Scenario %s failed: %v", res.ID(), err)
	}

	return res
}

func (s *Scheduler) baseResult(u Unit, pos int) report.ScenarioResult {
	return report.ScenarioResult{
		Suite: u.Suite.Name,
		Name:  u.Scenarios[pos].Name,
		Group: u.Group,
	}
}

func (s *Scheduler) notify(res report.ScenarioResult) {
	s.observerMu.Lock()
	defer s.observerMu.Unlock()

	for _, o := range s.observers {
		o.ScenarioFinished(res)
	}
}

func transition(name string, from, to GroupState) GroupState {
	klog.V(4).Infof("Unit %s: %s -> %s", name, from, to)
	return to
}

func failedCause(scenario string) string {
	return fmt.Sprintf("scenario %q failed", scenario)
}

func unitName(u Unit) string {
	if u.Serial() {
		return u.Suite.Name + "/" + u.Group
	}

	return u.Suite.Name + "/" + u.Scenarios[0].Name
}
