// Command jisho parses jisho.org concept-light documents into dictionary
// entries and inspects furigana alignments and meaning tags.
//
// Usage:
//
//	jisho import docs.jsonl [--workers N] [--batch-size N] [--fail-fast] [--dry-run]
//	jisho show <document-id>
//	jisho search [--reading R] [--writing W] [--jlpt N3] [--common]
//	jisho align <writing> <reading> [alignment]
//	jisho compose <writing:reading>...
//	jisho classify <tag>...
//	jisho version
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
