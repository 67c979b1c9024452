package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "moviez",
		Short:         "Server rendered movie browser backed by TMDB",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, serveOptions{})
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default ./moviez.yaml when present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newVersionCmd(),
		newHealthcheckCmd(opts),
	)
	return cmd
}
