package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/jisho"
	"github.com/heartmarshall/jisho-backend/internal/tags"
)

// setupTestStore creates a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "jisho.db"), tags.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func parseEntry(t *testing.T, docID, writing, reading string, jlpt *string) domain.DictionaryEntry {
	t.Helper()

	e, err := jisho.NewParser(tags.Default()).Parse(jisho.Document{
		ID:     docID,
		Word:   jisho.WordInput{Writing: writing, Reading: reading},
		Labels: jisho.LabelsRecord{JLPTLevel: jlpt},
		Fragments: []jisho.FragmentInput{
			{Kind: jisho.FragmentTag, Text: "Noun"},
			{Kind: jisho.FragmentEntry, Entry: &jisho.EntryRecord{MeaningText: strPtr("meaning of " + writing)}},
			{Kind: jisho.FragmentTag, Text: "Other forms"},
			{Kind: jisho.FragmentOtherForms, Forms: []jisho.OtherFormRecord{}},
		},
	})
	require.NoError(t, err)
	return e
}

func TestOpen_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "jisho.db")
	s, err := Open(context.Background(), path, tags.Default())
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist")
}

func TestStore_SaveAndGet(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	ctx := context.Background()

	e := parseEntry(t, "henken-1", "偏見", "へんけん", nil)
	require.NoError(t, s.Save(ctx, e))

	got, err := s.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	got, err = s.GetByDocumentID(ctx, "henken-1")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.NotNil(t, got.Meanings.OtherForms, "empty other forms must stay present")
	assert.Nil(t, got.Meanings.Notes)
}

func TestStore_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)

	_, err := s.GetByID(context.Background(), jisho.EntryID("missing"))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveBatch_Upserts(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	ctx := context.Background()

	first := parseEntry(t, "doc-1", "犬", "いぬ", nil)
	require.NoError(t, s.SaveBatch(ctx, []domain.DictionaryEntry{first}))

	n5 := "N5"
	updated := parseEntry(t, "doc-1", "犬", "いぬ", &n5)
	require.NoError(t, s.SaveBatch(ctx, []domain.DictionaryEntry{updated}))

	got, err := s.GetByDocumentID(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, got.Labels.JLPTLevel)
	assert.Equal(t, domain.JLPTLevelN5, *got.Labels.JLPTLevel)

	all, err := s.Search(ctx, domain.EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_Search(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	ctx := context.Background()

	n5 := "N5"
	require.NoError(t, s.SaveBatch(ctx, []domain.DictionaryEntry{
		parseEntry(t, "a", "猫", "ねこ", &n5),
		parseEntry(t, "b", "猫舌", "ねこじた", nil),
		parseEntry(t, "c", "犬", "いぬ", &n5),
	}))

	tests := []struct {
		name   string
		filter domain.EntryFilter
		want   []string
	}{
		{name: "all ordered by reading", filter: domain.EntryFilter{}, want: []string{"c", "a", "b"}},
		{name: "katakana reading matches hiragana", filter: domain.EntryFilter{Reading: strPtr("ネコ")}, want: []string{"a"}},
		{name: "writing prefix", filter: domain.EntryFilter{Writing: strPtr("猫")}, want: []string{"a", "b"}},
		{name: "jlpt", filter: domain.EntryFilter{JLPTLevel: func() *domain.JLPTLevel { l := domain.JLPTLevelN5; return &l }()}, want: []string{"c", "a"}},
		{name: "limit and offset", filter: domain.EntryFilter{Limit: 1, Offset: 1}, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.DocumentID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_RecordFailures(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordFailures(ctx, nil))
	require.NoError(t, s.RecordFailures(ctx, []domain.ParseFailure{
		{DocumentID: "bad", Kind: domain.KindStartsWithEntry, Message: "fragment 0: entry before any tag"},
		{DocumentID: "bad", Kind: domain.KindValidation, Message: "validation: id: required"},
	}))

	n, err := s.CountFailures(ctx, "bad")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_RunInTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	errAbort := errors.New("abort")

	t.Run("rollback discards entries and failures", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)
		e := parseEntry(t, "neko", "猫", "ねこ", nil)

		err := s.RunInTx(ctx, func(ctx context.Context) error {
			require.NoError(t, s.SaveBatch(ctx, []domain.DictionaryEntry{e}))
			require.NoError(t, s.RecordFailures(ctx, []domain.ParseFailure{
				{DocumentID: "broken", Kind: domain.KindDanglingGroup, Message: "no content"},
			}))

			// Reads inside the transaction see its writes.
			_, err := s.GetByDocumentID(ctx, "neko")
			require.NoError(t, err)
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		_, err = s.GetByDocumentID(ctx, "neko")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		n, err := s.CountFailures(ctx, "broken")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("commit keeps both", func(t *testing.T) {
		t.Parallel()
		s := setupTestStore(t)
		e := parseEntry(t, "inu", "犬", "いぬ", nil)

		require.NoError(t, s.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.SaveBatch(ctx, []domain.DictionaryEntry{e}); err != nil {
				return err
			}
			return s.RecordFailures(ctx, []domain.ParseFailure{
				{DocumentID: "broken", Kind: domain.KindStartsWithEntry, Message: "entry before any tag"},
			})
		}))

		_, err := s.GetByDocumentID(ctx, "inu")
		require.NoError(t, err)
		n, err := s.CountFailures(ctx, "broken")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
