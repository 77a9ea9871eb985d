package suite

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/chaty-app/chaty-e2e/internal/session"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks the suite structure and every step, returning all problems at once.
func Validate(s *Suite) error {
	var errs []error

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, errors.Errorf("%s: failed %q constraint", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	for i, st := range s.BeforeEach {
		if err := validateStep(st); err != nil {
			errs = append(errs, errors.Wrapf(err, "beforeEach[%d]", i))
		}
	}

	names := map[string]bool{}

	for i, sc := range s.Scenarios {
		if names[sc.Name] {
			errs = append(errs, errors.Errorf("scenarios[%d]: duplicate scenario name %q", i, sc.Name))
		}

		names[sc.Name] = true

		for j, st := range sc.Steps {
			if err := validateStep(st); err != nil {
				errs = append(errs, errors.Wrapf(err, "scenarios[%d] %q steps[%d]", i, sc.Name, j))
			}
		}
	}

	return utilerrors.NewAggregate(errs)
}

func validateStep(st Step) error {
	kind, err := st.Kind()
	if err != nil {
		return err
	}

	switch kind {
	case KindFill:
		if err := validateLocator(st.Fill.Locator); err != nil {
			return errors.Wrap(err, "fill")
		}
	case KindClick:
		if err := validateLocator(*st.Click); err != nil {
			return errors.Wrap(err, "click")
		}
	case KindAssertVisible:
		if err := validateLocator(*st.AssertVisible); err != nil {
			return errors.Wrap(err, "assertVisible")
		}
	case KindWaitFor:
		if st.WaitFor.Duration() <= 0 {
			return errors.New("waitFor: duration must be positive")
		}
	case KindCaptureActivation:
		if st.CaptureActivation.Username == "" || st.CaptureActivation.As == "" {
			return errors.New("captureActivation: username and as are required")
		}
	}

	return nil
}

func validateLocator(l session.Locator) error {
	set := 0

	for _, v := range []string{l.Label, l.Role, l.Text} {
		if v != "" {
			set++
		}
	}

	if l.Role == "" && l.Name != "" {
		// a bare name is shorthand for a button
		set++
	}

	switch {
	case set == 0:
		return errors.New("locator needs one of label, role, name or text")
	case set > 1:
		return errors.New("locator must use only one of label, role or text")
	}

	return nil
}
