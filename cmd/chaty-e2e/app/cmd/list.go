package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/options"
	"github.com/chaty-app/chaty-e2e/internal/scheduler"
	"github.com/chaty-app/chaty-e2e/internal/suite"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	opts := options.NewSuiteOptions()

	cmd := &cobra.Command{
		Use:   "list [SUITE]...",
		Short: "List scenarios and how they are scheduled",
		Long: `List every scenario with the unit it is scheduled in. Scenarios of one
serial group share a unit and run in the listed order.

Examples:
  chaty-e2e list suites/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = append(opts.Paths, args...)
			return runList(opts, cmd.OutOrStdout())
		},
	}

	opts.AddFlags(cmd.Flags())

	return cmd
}

func runList(opts *options.SuiteOptions, out io.Writer) error {
	if err := opts.Validate(); err != nil {
		return configError(err)
	}

	suites, err := opts.Load()
	if err != nil {
		return configError(err)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "UNIT\tSUITE\tSCENARIO\tGROUP\tSTEPS")

	for i, u := range scheduler.Plan(suites) {
		for _, sc := range u.Scenarios {
			steps := make([]suite.Step, 0, len(u.Suite.BeforeEach)+len(sc.Steps))
			steps = append(steps, u.Suite.BeforeEach...)
			steps = append(steps, sc.Steps...)

			kinds := make([]string, 0, len(steps))
			for _, st := range steps {
				k, _ := st.Kind()
				kinds = append(kinds, string(k))
			}

			group := u.Group
			if group == "" {
				group = "-"
			}

			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, u.Suite.Name, sc.Name, group, strings.Join(kinds, ","))
		}
	}

	return w.Flush()
}
