package options

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

type ExecutionOptions struct {
	Workers           int
	ElementTimeout    time.Duration
	AssertTimeout     time.Duration
	PollInterval      time.Duration
	ActivationTimeout time.Duration
}

func NewExecutionOptions() *ExecutionOptions {
	return &ExecutionOptions{
		Workers:           1,
		ElementTimeout:    5 * time.Second,
		AssertTimeout:     5 * time.Second,
		PollInterval:      100 * time.Millisecond,
		ActivationTimeout: 10 * time.Second,
	}
}

func (o *ExecutionOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&o.Workers, "workers", "w", o.Workers, "number of scenarios or serial groups run concurrently")
	fs.DurationVar(&o.ElementTimeout, "element-timeout", o.ElementTimeout, "how long fill and click wait for their element")
	fs.DurationVar(&o.AssertTimeout, "assert-timeout", o.AssertTimeout, "how long assertions poll before failing")
	fs.DurationVar(&o.PollInterval, "poll-interval", o.PollInterval, "interval between element and assertion polls")
	fs.DurationVar(&o.ActivationTimeout, "activation-timeout", o.ActivationTimeout, "how long to wait for an activation link")
}

func (o *ExecutionOptions) Validate() error {
	var errs []error

	if o.Workers < 1 {
		errs = append(errs, errors.Errorf("--workers must be at least 1, got %d", o.Workers))
	}

	for name, d := range map[string]time.Duration{
		"--element-timeout":    o.ElementTimeout,
		"--assert-timeout":     o.AssertTimeout,
		"--poll-interval":      o.PollInterval,
		"--activation-timeout": o.ActivationTimeout,
	} {
		if d <= 0 {
			errs = append(errs, errors.Errorf("%s must be positive", name))
		}
	}

	return utilerrors.NewAggregate(errs)
}
