package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaty-app/chaty-e2e/internal/version"
)

func newVersionCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, git commit, build time, and other build information for chaty-e2e`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()

			if output == "json" {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), string(data))

				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: json")

	return cmd
}
