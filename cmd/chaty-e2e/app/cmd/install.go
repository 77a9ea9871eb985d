package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaty-app/chaty-e2e/internal/session/pwsession"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var browser string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the browser driver and binaries",
		Long: `Download the playwright driver and the browser used by run and monitor.

Examples:
  chaty-e2e install --browser firefox`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pwsession.Install(browser); err != nil {
				return configError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s installed\n", browser)

			return nil
		},
	}

	cmd.Flags().StringVar(&browser, "browser", pwsession.BrowserChromium, "browser to install: chromium, firefox or webkit")

	return cmd
}
