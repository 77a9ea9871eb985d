package config

import (
	"github.com/chaty-app/chaty-e2e/internal/activation"
	"github.com/chaty-app/chaty-e2e/internal/assertion"
	"github.com/chaty-app/chaty-e2e/internal/fixture"
	"github.com/chaty-app/chaty-e2e/internal/scheduler"
	"github.com/chaty-app/chaty-e2e/internal/session/pwsession"
	"github.com/chaty-app/chaty-e2e/internal/step"
	"github.com/chaty-app/chaty-e2e/internal/suite"
)

// RunConfig is everything one run needs, resolved from flags, fixture files
// and the environment.
type RunConfig struct {
	Suites   []*suite.Suite
	Fixtures *fixture.Registry

	Browser    pwsession.Options
	Step       step.Options
	Assertion  assertion.Options
	Activation activation.Options
	Scheduler  scheduler.Options
}
