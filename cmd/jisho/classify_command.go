package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/jisho-backend/internal/tags"
)

func newClassifyCommand() *cobra.Command {
	var listRules bool

	cmd := &cobra.Command{
		Use:         "classify <tag>...",
		Short:       "Show how meaning tag headers are classified",
		Annotations: skipConfig(),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := tags.Default()

			if listRules {
				rules := registry.Rules()
				rows := make([][]string, len(rules))
				for i, r := range rules {
					rows[i] = []string{fmt.Sprintf("%d", i+1), r.Phrase, r.Kind.String()}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Phrase", "Part of speech"}, rows, []columnAlignment{alignRight}))
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("at least one tag is required (or use --rules)")
			}

			rows := make([][]string, len(args))
			for i, raw := range args {
				tag := registry.Classify(raw)
				kind := "-"
				if tag.Kind != "" {
					kind = tag.Kind.String()
				}
				rows[i] = []string{raw, tag.Category.String(), kind}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tag", "Category", "Part of speech"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&listRules, "rules", false, "List the classification rules in match order")

	return cmd
}
