package step

import (
	"fmt"

	"github.com/chaty-app/chaty-e2e/internal/session"
)

// NavigationError is returned when a page cannot be loaded.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to navigate to %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ElementNotFoundError is returned when a locator does not resolve within the element timeout.
type ElementNotFoundError struct {
	Locator session.Locator
	Err     error
}

func (e *ElementNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("element %s not found", e.Locator)
	}

	return fmt.Sprintf("element %s not found: %v", e.Locator, e.Err)
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Err
}
