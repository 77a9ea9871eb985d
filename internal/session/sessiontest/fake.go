// Package sessiontest provides an in-memory session.Factory for tests.
package sessiontest

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/chaty-app/chaty-e2e/internal/session"
)

// Session is a scripted session. Visible elements are keyed by Locator.String().
type Session struct {
	mu sync.Mutex

	url     string
	visible map[string]bool
	filled  map[string]string
	visits  []string
	clicks  []string
	closed  bool

	// OnGoto and OnClick let a test react to navigation and clicks, e.g. to
	// reveal a message or change the url.
	OnGoto  func(s *Session, url string) error
	OnClick func(s *Session, loc session.Locator) error
}

var _ session.Session = &Session{}

func NewSession() *Session {
	return &Session{
		visible: map[string]bool{},
		filled:  map[string]string{},
	}
}

// Show marks loc as visible.
func (s *Session) Show(loc session.Locator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible[loc.String()] = true
}

// Hide marks loc as not visible.
func (s *Session) Hide(loc session.Locator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.visible, loc.String())
}

// Clear hides every element and forgets filled values, as a page load does.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible = map[string]bool{}
	s.filled = map[string]string{}
}

// SetURL changes the current url without recording a visit.
func (s *Session) SetURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.url = url
}

func (s *Session) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.url = url
	s.visits = append(s.visits, url)
	hook := s.OnGoto
	s.mu.Unlock()

	if hook != nil {
		return hook(s, url)
	}

	return nil
}

func (s *Session) Fill(ctx context.Context, loc session.Locator, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.visible[loc.String()] {
		return errors.Errorf("%s not found", loc)
	}

	s.filled[loc.String()] = value

	return nil
}

func (s *Session) Click(ctx context.Context, loc session.Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.visible[loc.String()] {
		s.mu.Unlock()
		return errors.Errorf("%s not found", loc)
	}

	s.clicks = append(s.clicks, loc.String())
	hook := s.OnClick
	s.mu.Unlock()

	if hook != nil {
		return hook(s, loc)
	}

	return nil
}

func (s *Session) IsVisible(ctx context.Context, loc session.Locator) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.visible[loc.String()], nil
}

func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.url
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

// Filled returns the value typed into loc.
func (s *Session) Filled(loc session.Locator) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filled[loc.String()]
}

// Visits returns the navigated urls in order.
func (s *Session) Visits() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.visits...)
}

// Clicks returns the clicked locators in order.
func (s *Session) Clicks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.clicks...)
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Factory hands out sessions built by New and remembers them.
type Factory struct {
	mu       sync.Mutex
	sessions []*Session

	New func() *Session
	Err error
}

var _ session.Factory = &Factory{}

func (f *Factory) NewSession(ctx context.Context) (session.Session, error) {
	if f.Err != nil {
		return nil, f.Err
	}

	s := NewSession()
	if f.New != nil {
		s = f.New()
	}

	f.mu.Lock()
	f.sessions = append(f.sessions, s)
	f.mu.Unlock()

	return s, nil
}

// Sessions returns every session created so far.
func (f *Factory) Sessions() []*Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*Session(nil), f.sessions...)
}
