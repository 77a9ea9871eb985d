package cmd

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chaty-app/chaty-e2e/internal/fixture"
)

const (
	ExitOK = 0
	// ExitFailed means at least one scenario did not pass.
	ExitFailed = 1
	// ExitConfig means nothing ran: bad flags, suites or fixtures.
	ExitConfig = 2
)

// ExitError carries the process exit code of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func configError(err error) error {
	return &ExitError{Code: ExitConfig, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cfgErr *fixture.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}

	// flag parsing and argument errors
	return ExitConfig
}
