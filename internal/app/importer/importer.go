// Package importer parses JSONL document dumps into dictionary entries and
// writes them to a store in batches. A document that fails to parse is
// recorded as a failure and does not stop the run unless FailFast is set.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/jisho"
	"github.com/heartmarshall/jisho-backend/internal/tags"
	"github.com/heartmarshall/jisho-backend/pkg/ctxutil"
)

const defaultBatchSize = 200

// Store is the write side the importer needs. All writes of one run happen
// inside a single RunInTx call, so a failed run leaves nothing behind.
type Store interface {
	SaveBatch(ctx context.Context, entries []domain.DictionaryEntry) error
	RecordFailures(ctx context.Context, failures []domain.ParseFailure) error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds importer settings.
type Config struct {
	Workers   int
	BatchSize int
	FailFast  bool
	// DryRun parses and reports without writing anything.
	DryRun bool
}

// Result summarizes one import run.
type Result struct {
	RunID     uuid.UUID
	Documents int
	Parsed    int
	Failed    int
	Stored    int
	// FailuresByKind counts failed documents by error kind.
	FailuresByKind map[string]int
	// UnknownTags counts tag headers that matched no rule.
	UnknownTags map[string]int
	Duration    time.Duration
}

// Importer runs imports. One Importer must not run two imports at once:
// unknown tags are drained from its registry at the end of each run.
type Importer struct {
	log      *slog.Logger
	store    Store
	registry *tags.Registry
	parser   *jisho.Parser
	cfg      Config
}

// New creates an Importer.
func New(log *slog.Logger, store Store, registry *tags.Registry, cfg Config) *Importer {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Importer{
		log:      log,
		store:    store,
		registry: registry,
		parser:   jisho.NewParser(registry),
		cfg:      cfg,
	}
}

// item is one input slot: a decoded document or the error that kept it from
// decoding.
type item struct {
	doc       jisho.Document
	decodeErr error
	line      int
}

type outcome struct {
	entry domain.DictionaryEntry
	err   error
}

// ImportFile imports the JSONL file at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return im.ImportReader(ctx, f)
}

// ImportReader imports JSONL documents from r. Lines that do not decode are
// recorded as validation failures.
func (im *Importer) ImportReader(ctx context.Context, r io.Reader) (Result, error) {
	var items []item
	err := jisho.ReadDocuments(r, func(line int, doc jisho.Document, decodeErr error) error {
		items = append(items, item{doc: doc, decodeErr: decodeErr, line: line})
		return ctx.Err()
	})
	if err != nil {
		return Result{}, err
	}
	return im.run(ctx, items)
}

// Run imports already decoded documents.
func (im *Importer) Run(ctx context.Context, docs []jisho.Document) (Result, error) {
	items := make([]item, len(docs))
	for i, doc := range docs {
		items[i] = item{doc: doc, line: i + 1}
	}
	return im.run(ctx, items)
}

func (im *Importer) run(ctx context.Context, items []item) (Result, error) {
	start := time.Now()
	res := Result{
		RunID:          uuid.New(),
		Documents:      len(items),
		FailuresByKind: make(map[string]int),
	}
	ctx = ctxutil.WithRunID(ctx, res.RunID)

	im.log.Info("import started", append(ctxutil.LogAttrs(ctx),
		slog.Int("documents", len(items)),
		slog.Int("workers", im.cfg.Workers),
		slog.Bool("dry_run", im.cfg.DryRun),
	)...)

	outcomes, err := im.parseAll(ctx, items)
	res.UnknownTags = im.reportUnknownTags(ctx)
	if err != nil {
		res.Duration = time.Since(start)
		return res, err
	}

	var (
		entries  []domain.DictionaryEntry
		failures []domain.ParseFailure
	)
	for i, o := range outcomes {
		if o.err != nil {
			kind := domain.ErrorKind(o.err)
			res.FailuresByKind[kind]++
			failures = append(failures, domain.ParseFailure{
				DocumentID: failureID(items[i]),
				Kind:       kind,
				Message:    o.err.Error(),
			})
			continue
		}
		entries = append(entries, o.entry)
	}
	res.Parsed = len(entries)
	res.Failed = len(failures)

	if !im.cfg.DryRun {
		stored, err := im.write(ctx, entries, failures)
		if err != nil {
			res.Duration = time.Since(start)
			return res, err
		}
		res.Stored = stored
	}

	res.Duration = time.Since(start)
	im.log.Info("import completed", append(ctxutil.LogAttrs(ctx),
		slog.Int("parsed", res.Parsed),
		slog.Int("failed", res.Failed),
		slog.Int("stored", res.Stored),
		slog.Int("unknown_tags", len(res.UnknownTags)),
		slog.Duration("duration", res.Duration),
	)...)

	return res, nil
}

// write stores entries and failure records in one transaction and returns
// the number of entries written.
func (im *Importer) write(ctx context.Context, entries []domain.DictionaryEntry, failures []domain.ParseFailure) (int, error) {
	var stored int
	err := im.store.RunInTx(ctx, func(ctx context.Context) error {
		n, err := batchProcess(entries, im.cfg.BatchSize, func(batch []domain.DictionaryEntry) (int, error) {
			if err := im.store.SaveBatch(ctx, batch); err != nil {
				return 0, err
			}
			return len(batch), nil
		})
		if err != nil {
			return fmt.Errorf("save entries: %w", err)
		}

		_, err = batchProcess(failures, im.cfg.BatchSize, func(batch []domain.ParseFailure) (int, error) {
			return len(batch), im.store.RecordFailures(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("record failures: %w", err)
		}

		stored = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// parseAll parses items with bounded parallelism. Each worker writes only its
// own slot, so the result order matches the input order.
func (im *Importer) parseAll(ctx context.Context, items []item) ([]outcome, error) {
	outcomes := make([]outcome, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.cfg.Workers)

	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			it := items[i]
			if it.decodeErr != nil {
				outcomes[i] = outcome{err: fmt.Errorf("line %d: %w", it.line, it.decodeErr)}
			} else {
				entry, err := im.parser.Parse(it.doc)
				outcomes[i] = outcome{entry: entry, err: err}
			}

			if err := outcomes[i].err; err != nil {
				dctx := ctxutil.WithDocumentID(gctx, failureID(it))
				im.log.Debug("document rejected", append(ctxutil.LogAttrs(dctx),
					slog.String("kind", domain.ErrorKind(err)),
					slog.String("error", err.Error()),
				)...)
				if im.cfg.FailFast {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (im *Importer) reportUnknownTags(ctx context.Context) map[string]int {
	unknown := im.registry.DrainUnknown()
	if len(unknown) == 0 {
		return unknown
	}

	raws := make([]string, 0, len(unknown))
	for raw := range unknown {
		raws = append(raws, raw)
	}
	sort.Strings(raws)

	for _, raw := range raws {
		im.log.Warn("unknown tag", append(ctxutil.LogAttrs(ctx),
			slog.String("tag", raw),
			slog.Int("count", unknown[raw]),
		)...)
	}
	return unknown
}

func failureID(it item) string {
	if it.doc.ID != "" {
		return it.doc.ID
	}
	return fmt.Sprintf("line:%d", it.line)
}

// batchProcess calls fn for consecutive chunks of items and sums the results.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
