package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/jisho-backend/internal/app"
	"github.com/heartmarshall/jisho-backend/internal/app/importer"
	"github.com/heartmarshall/jisho-backend/internal/tags"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		workers   int
		batchSize int
		failFast  bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.jsonl>",
		Short: "Parse a JSONL document dump and store the entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			// Flags override config.
			icfg := importer.Config{
				Workers:   cfg.Import.Workers,
				BatchSize: cfg.Import.BatchSize,
				FailFast:  cfg.Import.FailFast,
				DryRun:    cfg.Import.DryRun,
			}
			if cmd.Flags().Changed("workers") {
				icfg.Workers = workers
			}
			if cmd.Flags().Changed("batch-size") {
				icfg.BatchSize = batchSize
			}
			if failFast {
				icfg.FailFast = true
			}
			if dryRun {
				icfg.DryRun = true
			}

			run := func(store importer.Store) error {
				res, err := importer.New(ctx.logger, store, tags.Default(), icfg).ImportFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderImportResult(res, icfg.DryRun))
				return nil
			}

			if icfg.DryRun {
				return run(nil)
			}
			return ctx.withStore(cmd, func(store app.Store) error { return run(store) })
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel parse workers (default from config)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Entries per write batch (default from config)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first document that fails to parse")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse without writing to storage")

	return cmd
}

func renderImportResult(res importer.Result, dryRun bool) string {
	rows := [][]string{
		{"Documents", strconv.Itoa(res.Documents)},
		{"Parsed", strconv.Itoa(res.Parsed)},
		{"Failed", strconv.Itoa(res.Failed)},
		{"Stored", strconv.Itoa(res.Stored)},
		{"Unknown tags", strconv.Itoa(len(res.UnknownTags))},
		{"Dry run", yesNo(dryRun)},
		{"Duration", res.Duration.Round(time.Millisecond).String()},
	}
	out := renderTable([]string{"Import", "Value"}, rows, []columnAlignment{alignLeft, alignRight})

	if len(res.FailuresByKind) > 0 {
		out += "\n" + renderCounts("Failure kind", res.FailuresByKind)
	}
	if len(res.UnknownTags) > 0 {
		out += "\n" + renderCounts("Unknown tag", res.UnknownTags)
	}
	return out
}

func renderCounts(title string, counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{k, strconv.Itoa(counts[k])}
	}
	return renderTable([]string{title, "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}
