package options

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/chaty-app/chaty-e2e/internal/suite"
)

type SuiteOptions struct {
	// Paths are suite files, directories or globs.
	Paths []string
}

func NewSuiteOptions() *SuiteOptions {
	return &SuiteOptions{}
}

func (o *SuiteOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&o.Paths, "suite", "s", o.Paths, "suite file, directory or glob; may be repeated (positional arguments work too)")
}

func (o *SuiteOptions) Validate() error {
	if len(o.Paths) == 0 {
		return errors.New("at least one suite path is required")
	}

	return nil
}

func (o *SuiteOptions) Load() ([]*suite.Suite, error) {
	return suite.LoadAll(o.Paths)
}
