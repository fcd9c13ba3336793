package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Plinth/internal/config"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of footing",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "footing v%s\n", config.Version)
			fmt.Fprintln(cmd.OutOrStdout(), "Isolated spread footing designer")
		},
	}
}
