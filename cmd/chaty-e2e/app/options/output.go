package options

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/chaty-app/chaty-e2e/internal/report"
)

type OutputOptions struct {
	Format   string
	File     string
	Progress bool
}

func NewOutputOptions() *OutputOptions {
	return &OutputOptions{
		Format:   report.FormatText,
		Progress: true,
	}
}

func (o *OutputOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Format, "format", "o", o.Format, "report format: "+strings.Join(report.Formats, ", "))
	fs.StringVar(&o.File, "output", o.File, "write the report to this file instead of stdout")
	fs.BoolVar(&o.Progress, "progress", o.Progress, "show a progress bar on stderr")
}

func (o *OutputOptions) Validate() error {
	if !slices.Contains(report.Formats, o.Format) {
		return errors.Errorf("unsupported format %q, must be one of %s", o.Format, strings.Join(report.Formats, ", "))
	}

	return nil
}
