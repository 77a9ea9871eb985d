// Package report aggregates scenario outcomes and renders them.
package report

import "time"

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Suite  string `json:"suite"`
	Name   string `json:"name"`
	Group  string `json:"group,omitempty"`
	Status Status `json:"status"`
	// Reason explains a failure.
	Reason string `json:"reason,omitempty"`
	// Cause names what made a scenario skip: the failed scenario of its
	// serial group, or the run being cancelled.
	Cause      string `json:"cause,omitempty"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// ID is the suite-qualified scenario name.
func (r ScenarioResult) ID() string {
	if r.Suite == "" {
		return r.Name
	}

	return r.Suite + "/" + r.Name
}

type Report struct {
	RunID     string           `json:"runId,omitempty"`
	BaseURL   string           `json:"baseUrl,omitempty"`
	StartedAt time.Time        `json:"startedAt"`
	Duration  string           `json:"duration,omitempty"`
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// New builds a report from results listed in declared order.
func New(results []ScenarioResult) *Report {
	r := &Report{Scenarios: results}

	for _, res := range results {
		r.Total++

		switch res.Status {
		case StatusPassed:
			r.Passed++
		case StatusFailed:
			r.Failed++
		case StatusSkipped:
			r.Skipped++
		}
	}

	return r
}

// OK reports whether every scenario passed.
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Skipped == 0
}
