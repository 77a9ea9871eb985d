package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewChatyE2ECommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chaty-e2e",
		Short: "Flow test runner for the chat application",
		Long: `chaty-e2e runs declarative browser flows against a live chat application
and reports which scenarios passed.

Suites are YAML files listing scenarios of steps (navigate, fill, click,
waitFor, assertVisible, assertUrl, captureActivation). Scenarios sharing a
group run in order on one browser session and stop at the first failure.

Examples:
  # Run every suite in a directory
  chaty-e2e run suites/ --base-url http://localhost:3000

  # Check suites without a browser
  chaty-e2e validate suites/

  # Compare the outcomes of two runs
  chaty-e2e diff first.json second.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewMonitorCmd())
	rootCmd.AddCommand(NewActivationLinkCmd())
	rootCmd.AddCommand(NewInstallCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	err := NewChatyE2ECommand().ExecuteContext(ctx)
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err.Error())
		}
	}

	return ExitCode(err)
}
