package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/furigana"
	"github.com/heartmarshall/jisho-backend/internal/jisho"
)

func newAlignCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "align <writing> <reading> [alignment]",
		Short:       "Split a word into furigana parts",
		Long:        "Alignment is a comma-separated list giving, for each reading character, the index of the written character it belongs to (e.g. 0,0,1,1 for 偏見/へんけん).",
		Args:        cobra.RangeArgs(2, 3),
		Annotations: skipConfig(),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := jisho.WordInput{Writing: args[0], Reading: args[1]}
			if len(args) == 3 {
				alignment, err := parseAlignment(args[2])
				if err != nil {
					return err
				}
				in.Alignment = alignment
			}

			printWord(cmd.OutOrStdout(), jisho.ParseWord(in))
			return nil
		},
	}
}

func newComposeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "compose <writing:reading>...",
		Short:       "Build a word from furigana parts",
		Args:        cobra.MinimumNArgs(1),
		Annotations: skipConfig(),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts := make([]domain.WordRepresentationPart, len(args))
			for i, arg := range args {
				writing, reading, ok := strings.Cut(arg, ":")
				if !ok {
					return fmt.Errorf("part %d: expected writing:reading, got %q", i, arg)
				}
				parts[i] = domain.WordRepresentationPart{Writing: writing, Reading: reading}
			}

			word, err := furigana.Compose(parts)
			if err != nil {
				return err
			}

			printWord(cmd.OutOrStdout(), word)
			return nil
		},
	}
}

func parseAlignment(raw string) ([]int, error) {
	fields := strings.Split(raw, ",")
	alignment := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid alignment %q: %w", raw, err)
		}
		alignment = append(alignment, n)
	}
	return alignment, nil
}

func printWord(w io.Writer, word domain.WordRepresentation) {
	parts := furigana.CharacterParts(word)
	rows := make([][]string, len(parts))
	for i, p := range parts {
		kind := "kanji"
		if p.IsPassThrough() {
			kind = "kana"
		}
		rows[i] = []string{strconv.Itoa(i), p.Writing, p.Reading, kind}
	}
	fmt.Fprintln(w, renderTable([]string{"#", "Writing", "Reading", "Kind"}, rows, []columnAlignment{alignRight}))

	alignment := "none"
	if word.HasAlignment() {
		parts := make([]string, len(word.Alignment))
		for i, n := range word.Alignment {
			parts[i] = strconv.Itoa(n)
		}
		alignment = strings.Join(parts, ",")
	}

	fmt.Fprintf(w, "Ruby:      %s\n", furigana.Ruby(word))
	fmt.Fprintf(w, "Alignment: %s\n", alignment)
	fmt.Fprintf(w, "Dirty:     %s\n", yesNo(word.IsDirty))
	fmt.Fprintf(w, "Kanji:     %s\n", strings.Join(furigana.KanjiList(word), " "))
	fmt.Fprintf(w, "Furigana:  %s\n", strings.Join(furigana.FuriganaList(word), " "))
	fmt.Fprintf(w, "Okurigana: %s\n", strings.Join(furigana.OkuriganaList(word), " "))
}
