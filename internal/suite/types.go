package suite

import (
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/chaty-app/chaty-e2e/internal/session"
)

type Kind string

const (
	KindNavigate          Kind = "navigate"
	KindFill              Kind = "fill"
	KindClick             Kind = "click"
	KindWaitFor           Kind = "waitFor"
	KindAssertVisible     Kind = "assertVisible"
	KindAssertURL         Kind = "assertUrl"
	KindCaptureActivation Kind = "captureActivation"
)

// Suite is one YAML file of scenarios sharing fixture defaults and a beforeEach block.
type Suite struct {
	Name string `yaml:"name" validate:"required"`
	// Fixtures are default fixture values; run-level values take precedence.
	Fixtures map[string]string `yaml:"fixtures,omitempty"`
	// Requires lists fixture keys the run must define, checked before any scenario starts.
	Requires   []string   `yaml:"requires,omitempty"`
	BeforeEach []Step     `yaml:"beforeEach,omitempty"`
	Scenarios  []Scenario `yaml:"scenarios" validate:"required,min=1,dive"`

	File string `yaml:"-"`
}

// Scenario is one independently reportable test case. Scenarios sharing a
// Group form a serial group and run in declared order on one session.
type Scenario struct {
	Name  string `yaml:"name" validate:"required"`
	Group string `yaml:"group,omitempty"`
	Steps []Step `yaml:"steps" validate:"required,min=1"`
}

// Step is a tagged variant: exactly one field is set.
type Step struct {
	Navigate          string             `yaml:"navigate,omitempty"`
	Fill              *FillAction        `yaml:"fill,omitempty"`
	Click             *session.Locator   `yaml:"click,omitempty"`
	WaitFor           *Duration          `yaml:"waitFor,omitempty"`
	AssertVisible     *session.Locator   `yaml:"assertVisible,omitempty"`
	AssertURL         string             `yaml:"assertUrl,omitempty"`
	CaptureActivation *CaptureActivation `yaml:"captureActivation,omitempty"`
}

// FillAction types Value into the element found by the inline locator.
type FillAction struct {
	session.Locator `yaml:",inline"`
	Value           string `yaml:"value"`
}

// CaptureActivation stores the activation token of Username in the variable As.
type CaptureActivation struct {
	Username string `yaml:"username"`
	As       string `yaml:"as"`
}

// Kinds returns the variants set on the step, in declaration order.
func (s Step) Kinds() []Kind {
	var kinds []Kind

	if s.Navigate != "" {
		kinds = append(kinds, KindNavigate)
	}

	if s.Fill != nil {
		kinds = append(kinds, KindFill)
	}

	if s.Click != nil {
		kinds = append(kinds, KindClick)
	}

	if s.WaitFor != nil {
		kinds = append(kinds, KindWaitFor)
	}

	if s.AssertVisible != nil {
		kinds = append(kinds, KindAssertVisible)
	}

	if s.AssertURL != "" {
		kinds = append(kinds, KindAssertURL)
	}

	if s.CaptureActivation != nil {
		kinds = append(kinds, KindCaptureActivation)
	}

	return kinds
}

// Kind returns the single variant of the step.
func (s Step) Kind() (Kind, error) {
	kinds := s.Kinds()

	switch len(kinds) {
	case 0:
		return "", errors.New("step has no action")
	case 1:
		return kinds[0], nil
	default:
		return "", errors.Errorf("step has more than one action: %v", kinds)
	}
}

// Duration accepts "1s" style strings or integer milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var ms int64
	if err := value.Decode(&ms); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return errors.Wrap(err, "duration must be a string or milliseconds")
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}

	*d = Duration(parsed)

	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Groups returns the serial group names in order of first appearance.
func (s *Suite) Groups() []string {
	seen := map[string]bool{}

	var groups []string

	for _, sc := range s.Scenarios {
		if sc.Group == "" || seen[sc.Group] {
			continue
		}

		seen[sc.Group] = true
		groups = append(groups, sc.Group)
	}

	return groups
}
