package options

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/chaty-app/chaty-e2e/internal/fixture"
)

type FixtureOptions struct {
	BaseURL string
	File    string
	// Values are key=value overrides with the highest precedence.
	Values map[string]string
	RunID  string
}

func NewFixtureOptions() *FixtureOptions {
	return &FixtureOptions{
		Values: map[string]string{},
	}
}

func (o *FixtureOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BaseURL, "base-url", o.BaseURL, "base url of the application under test (env: CHATY_E2E_BASE_URL)")
	fs.StringVar(&o.File, "fixtures", o.File, "fixture file (yaml or json)")
	fs.StringToStringVar(&o.Values, "fixture", o.Values, "fixture override as key=value; may be repeated")
	fs.StringVar(&o.RunID, "run-id", o.RunID, "identifier namespacing unique seed data; random when empty")
}

func (o *FixtureOptions) Validate() error {
	return nil
}

// Source builds the fixture source, layering suite defaults under run values.
func (o *FixtureOptions) Source(defaults map[string]string) fixture.Source {
	overrides := map[string]string{}
	for k, v := range o.Values {
		overrides[strings.ToLower(k)] = v
	}

	if o.BaseURL != "" {
		overrides[fixture.KeyBaseURL] = o.BaseURL
	}

	return fixture.Source{
		File:      o.File,
		Defaults:  defaults,
		Overrides: overrides,
		RunID:     o.RunID,
	}
}
