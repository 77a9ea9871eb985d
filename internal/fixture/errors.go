package fixture

import "fmt"

// ConfigError is returned when fixtures cannot be loaded or a required key is absent.
// It is fatal: a run aborts before any scenario executes.
type ConfigError struct {
	Key    string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := "config error"
	if e.Key != "" {
		msg = fmt.Sprintf("%s: fixture %q", msg, e.Key)
	}

	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MissingFixtureError is returned by Get for an unknown key.
type MissingFixtureError struct {
	Key string
}

func (e *MissingFixtureError) Error() string {
	return fmt.Sprintf("fixture %q is not defined", e.Key)
}
