package step

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/chaty-app/chaty-e2e/internal/fixture"
	"github.com/chaty-app/chaty-e2e/internal/session"
)

// State is what a unit of work carries from step to step: its exclusive
// session, the shared read-only fixtures and its own variables.
type State struct {
	Session  session.Session
	Fixtures *fixture.Registry
	Vars     map[string]string
}

func NewState(s session.Session, fixtures *fixture.Registry) *State {
	return &State{
		Session:  s,
		Fixtures: fixtures,
		Vars:     map[string]string{},
	}
}

// SetVar stores a variable. Fixture keys cannot be shadowed.
func (st *State) SetVar(name, value string) error {
	if st.Fixtures != nil && st.Fixtures.Has(name) {
		return errors.Errorf("variable %q would shadow a fixture", name)
	}

	if st.Vars == nil {
		st.Vars = map[string]string{}
	}

	st.Vars[strings.ToLower(name)] = value

	return nil
}

// Data returns the template data for step arguments.
func (st *State) Data() map[string]string {
	data := map[string]string{}
	if st.Fixtures != nil {
		data = st.Fixtures.Map()
	}

	for k, v := range st.Vars {
		data[k] = v
	}

	return data
}
