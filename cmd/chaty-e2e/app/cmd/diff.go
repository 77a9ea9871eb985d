package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chaty-app/chaty-e2e/internal/report"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <REPORT> <REPORT>",
		Short: "Compare the scenario outcomes of two reports",
		Long: `Compare two reports written with --format json or yaml. Only outcomes are
compared: timings and failure messages may differ between runs.

Exits 0 when both runs produced identical outcomes and 1 otherwise.

Examples:
  chaty-e2e run suites/ -o json --output first.json
  chaty-e2e run suites/ -o json --output second.json
  chaty-e2e diff first.json second.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], cmd.OutOrStdout())
		},
	}

	return cmd
}

func runDiff(pathA, pathB string, out io.Writer) error {
	a, err := report.Read(pathA)
	if err != nil {
		return configError(err)
	}

	b, err := report.Read(pathB)
	if err != nil {
		return configError(err)
	}

	equal, diff, err := report.Compare(a, b)
	if err != nil {
		return configError(err)
	}

	if equal {
		fmt.Fprintf(out, "outcomes identical (%d scenarios)\n", len(a.Scenarios))
		return nil
	}

	fmt.Fprintf(out, "outcomes differ:\n%s", diff)

	return &ExitError{Code: ExitFailed}
}
