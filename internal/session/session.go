// Package session defines the seam between the flow runner and the browser
// automation engine. A Session is owned by exactly one worker at a time.
package session

import (
	"context"
	"fmt"
)

// Locator identifies an element by the accessible attributes the browser engine resolves.
// Exactly one of Label, Role or Text is set; Name narrows a Role lookup.
type Locator struct {
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	Role  string `yaml:"role,omitempty" json:"role,omitempty"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Text  string `yaml:"text,omitempty" json:"text,omitempty"`
	Exact bool   `yaml:"exact,omitempty" json:"exact,omitempty"`
}

// Normalize turns a bare Name into a button lookup.
func (l Locator) Normalize() Locator {
	if l.Label == "" && l.Role == "" && l.Text == "" && l.Name != "" {
		l.Role = "button"
	}

	return l
}

func (l Locator) String() string {
	switch {
	case l.Label != "":
		return fmt.Sprintf("label %q", l.Label)
	case l.Role != "" && l.Name != "":
		return fmt.Sprintf("%s %q", l.Role, l.Name)
	case l.Role != "":
		return l.Role
	default:
		return fmt.Sprintf("text %q", l.Text)
	}
}

// Session is one browser-driven interaction context.
type Session interface {
	// Goto loads url and waits for the load event.
	Goto(ctx context.Context, url string) error
	// Fill types value into the first element matching loc.
	Fill(ctx context.Context, loc Locator, value string) error
	// Click activates the first element matching loc.
	Click(ctx context.Context, loc Locator) error
	// IsVisible reports whether an element matching loc is currently visible.
	IsVisible(ctx context.Context, loc Locator) (bool, error)
	// URL returns the current page url.
	URL() string
	Close() error
}

// Factory creates exclusive sessions.
type Factory interface {
	NewSession(ctx context.Context) (Session, error)
}
