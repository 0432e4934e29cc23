// Package dictentry implements dictionary entry persistence using PostgreSQL.
// The full entry is stored as its JSON record in a JSONB column; searchable
// fields are copied into plain columns on write.
package dictentry

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/jisho-backend/internal/adapter/postgres"
	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/jisho"
	"github.com/heartmarshall/jisho-backend/internal/meaning"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides dictionary entry persistence backed by PostgreSQL.
type Repo struct {
	q          postgres.Querier
	classifier meaning.Classifier
}

// New creates a new dictionary entry repository. c classifies group tags
// when stored records are decoded.
func New(q postgres.Querier, c meaning.Classifier) *Repo {
	return &Repo{q: q, classifier: c}
}

const upsertSQL = `
INSERT INTO dictionary_entries (
    id, document_id, writing, reading, reading_normalized,
    is_dirty, is_common, jlpt_level, wanikani_level, document, parsed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (document_id) DO UPDATE SET
    writing            = EXCLUDED.writing,
    reading            = EXCLUDED.reading,
    reading_normalized = EXCLUDED.reading_normalized,
    is_dirty           = EXCLUDED.is_dirty,
    is_common          = EXCLUDED.is_common,
    jlpt_level         = EXCLUDED.jlpt_level,
    wanikani_level     = EXCLUDED.wanikani_level,
    document           = EXCLUDED.document,
    parsed_at          = EXCLUDED.parsed_at,
    updated_at         = now()`

const entryColumns = `id, document_id, document`

// row is the scan target for entry reads.
type row struct {
	ID         uuid.UUID `db:"id"`
	DocumentID string    `db:"document_id"`
	Document   []byte    `db:"document"`
}

// failureRow is the scan target for parse failure reads.
type failureRow struct {
	DocumentID string    `db:"document_id"`
	Kind       string    `db:"kind"`
	Message    string    `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Save inserts an entry or replaces the stored entry for the same document.
func (r *Repo) Save(ctx context.Context, e domain.DictionaryEntry) error {
	args, err := upsertArgs(e)
	if err != nil {
		return err
	}

	querier := postgres.QuerierFromCtx(ctx, r.q)
	if _, err := querier.Exec(ctx, upsertSQL, args...); err != nil {
		return postgres.MapError(err, "entry", e.DocumentID)
	}
	return nil
}

// SaveBatch upserts entries in a single round trip. The batch runs in an
// implicit transaction, so either every entry is written or none is.
func (r *Repo) SaveBatch(ctx context.Context, entries []domain.DictionaryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		args, err := upsertArgs(e)
		if err != nil {
			return err
		}
		batch.Queue(upsertSQL, args...)
	}

	querier := postgres.QuerierFromCtx(ctx, r.q)
	br := querier.SendBatch(ctx, batch)
	defer br.Close()

	for _, e := range entries {
		if _, err := br.Exec(); err != nil {
			return postgres.MapError(err, "entry", e.DocumentID)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return nil
}

// RecordFailures stores the documents that could not be parsed.
func (r *Repo) RecordFailures(ctx context.Context, failures []domain.ParseFailure) error {
	if len(failures) == 0 {
		return nil
	}

	insert := psql.Insert("parse_failures").Columns("document_id", "kind", "message")
	for _, f := range failures {
		insert = insert.Values(f.DocumentID, f.Kind, f.Message)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert parse_failures: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.q)
	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert parse_failures: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns the entry with the given ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.DictionaryEntry, error) {
	return r.getOne(ctx, "id", id, id.String())
}

// GetByDocumentID returns the entry parsed from the given document.
func (r *Repo) GetByDocumentID(ctx context.Context, documentID string) (domain.DictionaryEntry, error) {
	return r.getOne(ctx, "document_id", documentID, documentID)
}

func (r *Repo) getOne(ctx context.Context, column string, value any, key string) (domain.DictionaryEntry, error) {
	query, args, err := psql.Select(entryColumns).
		From("dictionary_entries").
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("build select entry: %w", err)
	}

	var rw row
	querier := postgres.QuerierFromCtx(ctx, r.q)
	if err := pgxscan.Get(ctx, querier, &rw, query, args...); err != nil {
		return domain.DictionaryEntry{}, postgres.MapError(err, "entry", key)
	}

	return r.decode(rw)
}

// Search returns entries matching filter, ordered by reading then writing.
func (r *Repo) Search(ctx context.Context, filter domain.EntryFilter) ([]domain.DictionaryEntry, error) {
	query, args, err := buildSearch(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search entries: %w", err)
	}

	var rows []row
	querier := postgres.QuerierFromCtx(ctx, r.q)
	if err := pgxscan.Select(ctx, querier, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}

	entries := make([]domain.DictionaryEntry, 0, len(rows))
	for _, rw := range rows {
		e, err := r.decode(rw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ListFailures returns recorded parse failures, newest first.
func (r *Repo) ListFailures(ctx context.Context, limit int) ([]domain.ParseFailure, error) {
	query, args, err := psql.Select("document_id", "kind", "message", "created_at").
		From("parse_failures").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(clampLimit(limit))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select parse_failures: %w", err)
	}

	var rows []failureRow
	querier := postgres.QuerierFromCtx(ctx, r.q)
	if err := pgxscan.Select(ctx, querier, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list parse_failures: %w", err)
	}

	failures := make([]domain.ParseFailure, len(rows))
	for i, fr := range rows {
		failures[i] = domain.ParseFailure{
			DocumentID: fr.DocumentID,
			Kind:       fr.Kind,
			Message:    fr.Message,
			CreatedAt:  fr.CreatedAt,
		}
	}
	return failures, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func buildSearch(f domain.EntryFilter) sq.SelectBuilder {
	b := psql.Select(entryColumns).From("dictionary_entries")

	if f.Reading != nil && *f.Reading != "" {
		b = b.Where(sq.Eq{"reading_normalized": domain.NormalizeReading(*f.Reading)})
	}
	if f.Writing != nil && *f.Writing != "" {
		b = b.Where(sq.Like{"writing": escapeLike(*f.Writing) + "%"})
	}
	if f.JLPTLevel != nil {
		b = b.Where(sq.Eq{"jlpt_level": f.JLPTLevel.String()})
	}
	if f.IsCommon != nil {
		b = b.Where(sq.Eq{"is_common": *f.IsCommon})
	}

	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	return b.OrderBy("reading_normalized ASC", "writing ASC", "document_id ASC").
		Limit(uint64(clampLimit(f.Limit))).
		Offset(uint64(offset))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

func upsertArgs(e domain.DictionaryEntry) ([]any, error) {
	doc, err := jisho.Encode(e)
	if err != nil {
		return nil, err
	}

	var jlpt *string
	if e.Labels.JLPTLevel != nil {
		lvl := e.Labels.JLPTLevel.String()
		jlpt = &lvl
	}

	return []any{
		e.ID,
		e.DocumentID,
		e.Word.Writing,
		e.Word.Reading,
		domain.NormalizeReading(e.Word.Reading),
		e.Word.IsDirty,
		e.Labels.IsCommon,
		jlpt,
		e.Labels.WaniKaniLevel,
		string(doc),
		e.ParsedAt,
	}, nil
}

func (r *Repo) decode(rw row) (domain.DictionaryEntry, error) {
	e, err := jisho.Decode(rw.Document, r.classifier)
	if err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("entry %s: %w", rw.DocumentID, err)
	}
	return e, nil
}
