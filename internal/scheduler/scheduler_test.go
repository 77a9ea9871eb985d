package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaty-app/chaty-e2e/internal/assertion"
	"github.com/chaty-app/chaty-e2e/internal/fixture"
	"github.com/chaty-app/chaty-e2e/internal/report"
	"github.com/chaty-app/chaty-e2e/internal/session"
	"github.com/chaty-app/chaty-e2e/internal/session/sessiontest"
	"github.com/chaty-app/chaty-e2e/internal/step"
	"github.com/chaty-app/chaty-e2e/internal/suite"
)

var (
	pass = []suite.Step{{Navigate: "/"}}
	fail = []suite.Step{{Click: &session.Locator{Name: "Missing"}}}
)

type recorder struct {
	mu      sync.Mutex
	results []report.ScenarioResult
}

func (r *recorder) ScenarioFinished(res report.ScenarioResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, res)
}

type tokens map[string]string

func (t tokens) Token(_ context.Context, username string) (string, error) {
	return t[username], nil
}

func newScheduler(t *testing.T, workers int, factory session.Factory, observers ...Observer) *Scheduler {
	t.Helper()

	fixtures, err := fixture.Load(fixture.Source{
		Defaults: map[string]string{"base_url": "http://localhost:3000"},
		RunID:    "r1",
	})
	require.NoError(t, err)

	executor := step.NewExecutor(
		step.Options{ElementTimeout: 30 * time.Millisecond, PollInterval: 5 * time.Millisecond},
		assertion.NewEvaluator(assertion.Options{Timeout: 30 * time.Millisecond, Interval: 5 * time.Millisecond}),
		tokens{"alice": "tok-a"},
		nil,
	)

	return New(Options{Workers: workers}, factory, executor, fixtures, observers...)
}

func statuses(r *report.Report) []report.Status {
	out := make([]report.Status, 0, len(r.Scenarios))
	for _, s := range r.Scenarios {
		out = append(out, s.Status)
	}

	return out
}

func names(r *report.Report) []string {
	out := make([]string, 0, len(r.Scenarios))
	for _, s := range r.Scenarios {
		out = append(out, s.Name)
	}

	return out
}

func TestPlan(t *testing.T) {
	s := &suite.Suite{
		Name: "register",
		Scenarios: []suite.Scenario{
			{Name: "a"},
			{Name: "b", Group: "g1"},
			{Name: "c"},
			{Name: "d", Group: "g1"},
			{Name: "e", Group: "g2"},
		},
	}
	other := &suite.Suite{Name: "login", Scenarios: []suite.Scenario{{Name: "f", Group: "g1"}}}

	units := Plan([]*suite.Suite{s, other})
	require.Len(t, units, 5)

	assert.False(t, units[0].Serial())
	assert.Equal(t, "g1", units[1].Group)
	assert.Equal(t, []int{1, 3}, units[1].indices)
	assert.Equal(t, "b", units[1].Scenarios[0].Name)
	assert.Equal(t, "d", units[1].Scenarios[1].Name)
	assert.Equal(t, []int{2}, units[2].indices)
	assert.Equal(t, "g2", units[3].Group)
	assert.Equal(t, "login", units[4].Suite.Name)
	assert.Equal(t, []int{5}, units[4].indices)

	assert.Equal(t, 6, CountScenarios([]*suite.Suite{s, other}))
}

func TestRunIndependentScenarios(t *testing.T) {
	factory := &sessiontest.Factory{}
	s := &suite.Suite{
		Name: "login",
		Scenarios: []suite.Scenario{
			{Name: "one", Steps: pass},
			{Name: "two", Steps: fail},
			{Name: "three", Steps: pass},
		},
	}

	r := newScheduler(t, 1, factory).Run(context.Background(), []*suite.Suite{s})

	assert.Equal(t, []report.Status{report.StatusPassed, report.StatusFailed, report.StatusPassed}, statuses(r))
	assert.Contains(t, r.Scenarios[1].Reason, `element button "Missing" not found`)
	assert.Equal(t, "r1", r.RunID)
	assert.Equal(t, "http://localhost:3000", r.BaseURL)

	sessions := factory.Sessions()
	require.Len(t, sessions, 3)

	for _, sess := range sessions {
		assert.True(t, sess.Closed())
	}
}

func TestRunSerialGroupFailFast(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for failing := 0; failing < n; failing++ {
			t.Run(fmt.Sprintf("n=%d/fail=%d", n, failing), func(t *testing.T) {
				scenarios := []suite.Scenario{{Name: "before", Steps: pass}}
				for i := 0; i < n; i++ {
					steps := pass
					if i == failing {
						steps = fail
					}

					scenarios = append(scenarios, suite.Scenario{Name: fmt.Sprintf("s%d", i), Group: "serial", Steps: steps})
				}

				scenarios = append(scenarios, suite.Scenario{Name: "after", Steps: pass})

				factory := &sessiontest.Factory{}
				r := newScheduler(t, 2, factory).Run(context.Background(), []*suite.Suite{{Name: "x", Scenarios: scenarios}})
				require.Len(t, r.Scenarios, n+2)

				assert.Equal(t, report.StatusPassed, r.Scenarios[0].Status)
				assert.Equal(t, report.StatusPassed, r.Scenarios[n+1].Status)

				for i := 0; i < n; i++ {
					res := r.Scenarios[i+1]

					switch {
					case i < failing:
						assert.Equal(t, report.StatusPassed, res.Status)
					case i == failing:
						assert.Equal(t, report.StatusFailed, res.Status)
					default:
						assert.Equal(t, report.StatusSkipped, res.Status)
						assert.Equal(t, fmt.Sprintf("scenario %q failed", fmt.Sprintf("s%d", failing)), res.Cause)
					}
				}

				// one session for the group plus one per independent scenario
				assert.Len(t, factory.Sessions(), 3)
			})
		}
	}
}

func TestRunKeepsDeclaredOrderWithManyWorkers(t *testing.T) {
	var scenarios []suite.Scenario
	for i := 0; i < 12; i++ {
		sc := suite.Scenario{Name: fmt.Sprintf("s%02d", i), Steps: pass}
		if i%3 == 0 {
			sc.Group = "g"
		}

		scenarios = append(scenarios, sc)
	}

	rec := &recorder{}
	r := newScheduler(t, 4, &sessiontest.Factory{}, rec).Run(context.Background(), []*suite.Suite{{Name: "x", Scenarios: scenarios}})

	expected := make([]string, 0, len(scenarios))
	for _, sc := range scenarios {
		expected = append(expected, sc.Name)
	}

	assert.Equal(t, expected, names(r))
	assert.Equal(t, 12, r.Passed)
	assert.Len(t, rec.results, 12)
}

func TestRunGroupSharesSessionAndVariables(t *testing.T) {
	factory := &sessiontest.Factory{}
	s := &suite.Suite{
		Name: "activation",
		Scenarios: []suite.Scenario{
			{Name: "capture", Group: "g", Steps: []suite.Step{
				{CaptureActivation: &suite.CaptureActivation{Username: "alice", As: "token"}},
			}},
			{Name: "activate", Group: "g", Steps: []suite.Step{
				{Navigate: "/callback/activate/{{ .token }}"},
			}},
		},
	}

	r := newScheduler(t, 1, factory).Run(context.Background(), []*suite.Suite{s})
	require.True(t, r.OK(), "%+v", r.Scenarios)

	sessions := factory.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, []string{"http://localhost:3000/callback/activate/tok-a"}, sessions[0].Visits())
}

func TestRunBeforeEach(t *testing.T) {
	factory := &sessiontest.Factory{}
	s := &suite.Suite{
		Name:       "login",
		BeforeEach: []suite.Step{{Navigate: "/login"}},
		Scenarios: []suite.Scenario{
			{Name: "a", Group: "g", Steps: []suite.Step{{Navigate: "/a"}}},
			{Name: "b", Group: "g", Steps: []suite.Step{{Navigate: "/b"}}},
		},
	}

	r := newScheduler(t, 1, factory).Run(context.Background(), []*suite.Suite{s})
	require.True(t, r.OK())

	assert.Equal(t, []string{
		"http://localhost:3000/login",
		"http://localhost:3000/a",
		"http://localhost:3000/login",
		"http://localhost:3000/b",
	}, factory.Sessions()[0].Visits())
}

func TestRunAssertionDetails(t *testing.T) {
	s := &suite.Suite{
		Name: "login",
		Scenarios: []suite.Scenario{
			{Name: "a", Steps: []suite.Step{{AssertURL: "/signup"}}},
		},
	}

	factory := &sessiontest.Factory{New: func() *sessiontest.Session {
		sess := sessiontest.NewSession()
		sess.SetURL("http://localhost:3000/login")

		return sess
	}}

	r := newScheduler(t, 1, factory).Run(context.Background(), []*suite.Suite{s})
	require.Equal(t, report.StatusFailed, r.Scenarios[0].Status)
	assert.Equal(t, "url http://localhost:3000/signup", r.Scenarios[0].Expected)
	assert.Equal(t, "http://localhost:3000/login", r.Scenarios[0].Actual)
}

func TestRunSessionFailure(t *testing.T) {
	factory := &sessiontest.Factory{Err: errors.New("browser crashed")}
	s := &suite.Suite{
		Name: "x",
		Scenarios: []suite.Scenario{
			{Name: "a", Group: "g", Steps: pass},
			{Name: "b", Group: "g", Steps: pass},
		},
	}

	r := newScheduler(t, 1, factory).Run(context.Background(), []*suite.Suite{s})

	assert.Equal(t, []report.Status{report.StatusFailed, report.StatusSkipped}, statuses(r))
	assert.Equal(t, "failed to create session: browser crashed", r.Scenarios[0].Reason)
	assert.Equal(t, `scenario "a" failed`, r.Scenarios[1].Cause)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	factory := &sessiontest.Factory{}
	s := &suite.Suite{
		Name: "x",
		Scenarios: []suite.Scenario{
			{Name: "a", Steps: pass},
			{Name: "b", Group: "g", Steps: pass},
		},
	}

	r := newScheduler(t, 2, factory).Run(ctx, []*suite.Suite{s})

	assert.Equal(t, 2, r.Skipped)

	for _, res := range r.Scenarios {
		assert.Equal(t, CauseCancelled, res.Cause)
	}

	assert.Empty(t, factory.Sessions())
}

func TestRunCancelledMidGroupKeepsCause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hour := suite.Duration(time.Hour)
	s := &suite.Suite{
		Name: "x",
		Scenarios: []suite.Scenario{
			{Name: "a", Group: "g", Steps: []suite.Step{{WaitFor: &hour}}},
			{Name: "b", Group: "g", Steps: pass},
		},
	}

	time.AfterFunc(50*time.Millisecond, cancel)

	r := newScheduler(t, 1, &sessiontest.Factory{}).Run(ctx, []*suite.Suite{s})

	assert.Equal(t, []report.Status{report.StatusSkipped, report.StatusSkipped}, statuses(r))
	assert.Equal(t, CauseCancelled, r.Scenarios[0].Cause)
	assert.Equal(t, CauseCancelled, r.Scenarios[1].Cause)
	assert.Zero(t, r.Failed)
}
