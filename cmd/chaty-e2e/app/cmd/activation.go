package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chaty-app/chaty-e2e/internal/activation"
	"github.com/chaty-app/chaty-e2e/internal/authtoken"
	"github.com/chaty-app/chaty-e2e/internal/util"
)

type activationOptions struct {
	baseURL   string
	timeout   time.Duration
	interval  time.Duration
	authToken string
	all       bool
}

// NewActivationLinkCmd creates the activation-link command.
func NewActivationLinkCmd() *cobra.Command {
	opts := &activationOptions{
		timeout:  10 * time.Second,
		interval: 500 * time.Millisecond,
	}

	cmd := &cobra.Command{
		Use:   "activation-link [USERNAME]",
		Short: "Print the activation link of a registered user",
		Long: `Read the application's debug activation endpoint and print the activation
url of USERNAME, waiting until it appears. With --all, print every pending link.

Examples:
  chaty-e2e activation-link testuser --base-url http://localhost:3000
  chaty-e2e activation-link --all --base-url http://localhost:3000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			username := ""
			if len(args) == 1 {
				username = args[0]
			}

			return runActivationLink(cmd.Context(), opts, username, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "base-url", opts.baseURL, "base url of the application")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "how long to wait for the link")
	cmd.Flags().DurationVar(&opts.interval, "interval", opts.interval, "poll interval")
	cmd.Flags().StringVar(&opts.authToken, "auth-token", opts.authToken, "auth token sent in the AUTH header")
	cmd.Flags().BoolVar(&opts.all, "all", opts.all, "print every pending activation link")

	_ = cmd.MarkFlagRequired("base-url")

	return cmd
}

func runActivationLink(ctx context.Context, opts *activationOptions, username string, out io.Writer) error {
	if !util.IsBaseURL(opts.baseURL) {
		return configError(errors.Errorf("--base-url must be an http(s) url, got %q", opts.baseURL))
	}

	if username == "" && !opts.all {
		return configError(errors.New("a username or --all is required"))
	}

	var src authtoken.Source
	if opts.authToken != "" {
		src = authtoken.StaticSource(opts.authToken)
	}

	client := activation.NewClient(activation.Options{
		BaseURL:     opts.baseURL,
		Timeout:     opts.timeout,
		Interval:    opts.interval,
		TokenSource: src,
	})

	if opts.all {
		links, err := client.Links(ctx)
		if err != nil {
			return &ExitError{Code: ExitFailed, Err: err}
		}

		users := make([]string, 0, len(links))
		for u := range links {
			users = append(users, u)
		}

		sort.Strings(users)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tTOKEN\tURL")

		for _, u := range users {
			token := activation.TokenFromLink(links[u])
			fmt.Fprintf(w, "%s\t%s\t%s\n", u, token, client.ActivationURL(token))
		}

		return w.Flush()
	}

	token, err := client.Token(ctx, username)
	if err != nil {
		return &ExitError{Code: ExitFailed, Err: err}
	}

	fmt.Fprintln(out, client.ActivationURL(token))

	return nil
}
