package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/options"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	opts := options.NewSuiteOptions()

	cmd := &cobra.Command{
		Use:   "validate [SUITE]...",
		Short: "Check suite files without running them",
		Long: `Parse and validate suites. Every problem is reported, not just the first.

Exits 0 when all suites are valid and 2 otherwise.

Examples:
  chaty-e2e validate suites/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = append(opts.Paths, args...)
			return runValidate(opts, cmd.OutOrStdout())
		},
	}

	opts.AddFlags(cmd.Flags())

	return cmd
}

func runValidate(opts *options.SuiteOptions, out io.Writer) error {
	if err := opts.Validate(); err != nil {
		return configError(err)
	}

	suites, err := opts.Load()
	if err != nil {
		return configError(err)
	}

	for _, s := range suites {
		fmt.Fprintf(out, "%s: ok (%d scenarios, %d serial groups) %s\n", s.Name, len(s.Scenarios), len(s.Groups()), s.File)
	}

	return nil
}
