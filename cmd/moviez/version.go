package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviez/handlers"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "moviez %s\n", handlers.GetVersion())
		},
	}
}
