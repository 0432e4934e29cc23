package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/jisho-backend/internal/app"
	"github.com/heartmarshall/jisho-backend/internal/jisho"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Print a stored entry as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store app.Store) error {
				entry, err := store.GetByDocumentID(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				data, err := jisho.Encode(entry)
				if err != nil {
					return err
				}

				var pretty bytes.Buffer
				if err := json.Indent(&pretty, data, "", "  "); err != nil {
					return fmt.Errorf("format entry: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
				return nil
			})
		},
	}
}
