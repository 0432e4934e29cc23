// Package sqlite is the single-file entry store used when no PostgreSQL
// server is configured. It keeps the same shape as the PostgreSQL schema:
// searchable columns plus the JSON record of the entry.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/jisho"
	"github.com/heartmarshall/jisho-backend/internal/meaning"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Store persists dictionary entries in an SQLite database file.
type Store struct {
	db         *sql.DB
	classifier meaning.Classifier
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string, c meaning.Classifier) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{db: db, classifier: c}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// conn is the subset of *sql.DB and *sql.Tx the store queries through.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txCtxKey struct{}

// connFromCtx returns the transaction started by RunInTx, or the database.
// With a single connection, statements issued outside the open transaction
// would block on it.
func (s *Store) connFromCtx(ctx context.Context) conn {
	if tx, ok := ctx.Value(txCtxKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// RunInTx executes fn within one transaction. Store methods called with the
// context passed to fn use that transaction; a nested RunInTx joins it.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS dictionary_entries (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL UNIQUE,
		writing TEXT NOT NULL,
		reading TEXT NOT NULL,
		reading_normalized TEXT NOT NULL,
		is_dirty INTEGER NOT NULL DEFAULT 0,
		is_common INTEGER NOT NULL DEFAULT 0,
		jlpt_level TEXT,
		wanikani_level INTEGER,
		document TEXT NOT NULL,
		parsed_at DATETIME NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_entries_reading ON dictionary_entries(reading_normalized);
	CREATE INDEX IF NOT EXISTS idx_entries_writing ON dictionary_entries(writing);

	CREATE TABLE IF NOT EXISTS parse_failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_failures_document ON parse_failures(document_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const upsertSQL = `
	INSERT INTO dictionary_entries (
		id, document_id, writing, reading, reading_normalized,
		is_dirty, is_common, jlpt_level, wanikani_level, document, parsed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(document_id) DO UPDATE SET
		writing = excluded.writing,
		reading = excluded.reading,
		reading_normalized = excluded.reading_normalized,
		is_dirty = excluded.is_dirty,
		is_common = excluded.is_common,
		jlpt_level = excluded.jlpt_level,
		wanikani_level = excluded.wanikani_level,
		document = excluded.document,
		parsed_at = excluded.parsed_at,
		updated_at = CURRENT_TIMESTAMP`

// Save inserts an entry or replaces the stored entry for the same document.
func (s *Store) Save(ctx context.Context, e domain.DictionaryEntry) error {
	return s.SaveBatch(ctx, []domain.DictionaryEntry{e})
}

// SaveBatch upserts entries in one transaction, or in the caller's
// transaction when ctx carries one.
func (s *Store) SaveBatch(ctx context.Context, entries []domain.DictionaryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return s.RunInTx(ctx, func(ctx context.Context) error {
		stmt, err := s.connFromCtx(ctx).PrepareContext(ctx, upsertSQL)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			doc, err := jisho.Encode(e)
			if err != nil {
				return err
			}

			var jlpt any
			if e.Labels.JLPTLevel != nil {
				jlpt = e.Labels.JLPTLevel.String()
			}
			var wanikani any
			if e.Labels.WaniKaniLevel != nil {
				wanikani = *e.Labels.WaniKaniLevel
			}

			_, err = stmt.ExecContext(ctx,
				e.ID.String(),
				e.DocumentID,
				e.Word.Writing,
				e.Word.Reading,
				domain.NormalizeReading(e.Word.Reading),
				e.Word.IsDirty,
				e.Labels.IsCommon,
				jlpt,
				wanikani,
				string(doc),
				e.ParsedAt.UTC().Format(time.RFC3339Nano),
			)
			if err != nil {
				return fmt.Errorf("save entry %s: %w", e.DocumentID, err)
			}
		}
		return nil
	})
}

// RecordFailures stores the documents that could not be parsed.
func (s *Store) RecordFailures(ctx context.Context, failures []domain.ParseFailure) error {
	if len(failures) == 0 {
		return nil
	}

	insert := sq.Insert("parse_failures").Columns("document_id", "kind", "message")
	for _, f := range failures {
		insert = insert.Values(f.DocumentID, f.Kind, f.Message)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert parse_failures: %w", err)
	}
	if _, err := s.connFromCtx(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert parse_failures: %w", err)
	}
	return nil
}

// GetByID returns the entry with the given ID.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (domain.DictionaryEntry, error) {
	return s.getOne(ctx, "id", id.String())
}

// GetByDocumentID returns the entry parsed from the given document.
func (s *Store) GetByDocumentID(ctx context.Context, documentID string) (domain.DictionaryEntry, error) {
	return s.getOne(ctx, "document_id", documentID)
}

func (s *Store) getOne(ctx context.Context, column, key string) (domain.DictionaryEntry, error) {
	query, args, err := sq.Select("document").
		From("dictionary_entries").
		Where(sq.Eq{column: key}).
		ToSql()
	if err != nil {
		return domain.DictionaryEntry{}, fmt.Errorf("build select entry: %w", err)
	}

	var doc string
	if err := s.connFromCtx(ctx).QueryRowContext(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DictionaryEntry{}, fmt.Errorf("entry %s: %w", key, domain.ErrNotFound)
		}
		return domain.DictionaryEntry{}, fmt.Errorf("entry %s: %w", key, err)
	}

	return jisho.Decode([]byte(doc), s.classifier)
}

// Search returns entries matching filter, ordered by reading then writing.
func (s *Store) Search(ctx context.Context, filter domain.EntryFilter) ([]domain.DictionaryEntry, error) {
	b := sq.Select("document").From("dictionary_entries")

	if filter.Reading != nil && *filter.Reading != "" {
		b = b.Where(sq.Eq{"reading_normalized": domain.NormalizeReading(*filter.Reading)})
	}
	if filter.Writing != nil && *filter.Writing != "" {
		b = b.Where("substr(writing, 1, length(?)) = ?", *filter.Writing, *filter.Writing)
	}
	if filter.JLPTLevel != nil {
		b = b.Where(sq.Eq{"jlpt_level": filter.JLPTLevel.String()})
	}
	if filter.IsCommon != nil {
		b = b.Where(sq.Eq{"is_common": *filter.IsCommon})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query, args, err := b.OrderBy("reading_normalized", "writing", "document_id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search entries: %w", err)
	}

	rows, err := s.connFromCtx(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.DictionaryEntry
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e, err := jisho.Decode([]byte(doc), s.classifier)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	return entries, nil
}

// CountFailures returns the number of recorded failures for a document.
func (s *Store) CountFailures(ctx context.Context, documentID string) (int, error) {
	var n int
	err := s.connFromCtx(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM parse_failures WHERE document_id = ?", documentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count parse_failures: %w", err)
	}
	return n, nil
}
