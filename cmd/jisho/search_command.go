package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/jisho-backend/internal/app"
	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/furigana"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		reading string
		writing string
		jlpt    string
		common  bool
		limit   int
		offset  int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search stored entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.EntryFilter{Limit: limit, Offset: offset}
			if reading != "" {
				filter.Reading = &reading
			}
			if writing != "" {
				filter.Writing = &writing
			}
			if jlpt != "" {
				level := domain.JLPTLevel(strings.ToUpper(jlpt))
				if !level.IsValid() {
					return fmt.Errorf("invalid --jlpt %q: must be one of N1..N5", jlpt)
				}
				filter.JLPTLevel = &level
			}
			if cmd.Flags().Changed("common") {
				filter.IsCommon = &common
			}

			return ctx.withStore(cmd, func(store app.Store) error {
				entries, err := store.Search(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No entries found")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderEntries(entries))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reading, "reading", "", "Exact reading (hiragana or katakana)")
	cmd.Flags().StringVar(&writing, "writing", "", "Writing prefix")
	cmd.Flags().StringVar(&jlpt, "jlpt", "", "JLPT level (N1..N5)")
	cmd.Flags().BoolVar(&common, "common", false, "Only common (or, with --common=false, uncommon) words")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")

	return cmd
}

func renderEntries(entries []domain.DictionaryEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		jlpt := "-"
		if e.Labels.JLPTLevel != nil {
			jlpt = e.Labels.JLPTLevel.String()
		}
		rows[i] = []string{
			e.DocumentID,
			furigana.Ruby(e.Word),
			jlpt,
			yesNo(e.Labels.IsCommon),
			fmt.Sprintf("%d", len(e.Meanings.Groups)),
		}
	}
	return renderTable(
		[]string{"Document", "Word", "JLPT", "Common", "Groups"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
