package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/jisho-backend/internal/app"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the build version",
		Args:        cobra.NoArgs,
		Annotations: skipConfig(),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "jisho %s\n", app.BuildVersion())
			return nil
		},
	}
}
