package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jisho-backend/internal/domain"
	"github.com/heartmarshall/jisho-backend/internal/jisho"
	"github.com/heartmarshall/jisho-backend/internal/tags"
)

type fakeStore struct {
	mu        sync.Mutex
	batches   [][]domain.DictionaryEntry
	failures  []domain.ParseFailure
	saveErr   error
	recordErr error
	txCalls   int
}

// RunInTx restores the stored state when fn fails.
func (s *fakeStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	s.txCalls++
	batches, failures := len(s.batches), len(s.failures)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.batches, s.failures = s.batches[:batches], s.failures[:failures]
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *fakeStore) SaveBatch(_ context.Context, entries []domain.DictionaryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.batches = append(s.batches, append([]domain.DictionaryEntry(nil), entries...))
	return nil
}

func (s *fakeStore) RecordFailures(_ context.Context, failures []domain.ParseFailure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	s.failures = append(s.failures, failures...)
	return nil
}

func (s *fakeStore) saved() []string {
	var ids []string
	for _, b := range s.batches {
		for _, e := range b {
			ids = append(ids, e.DocumentID)
		}
	}
	return ids
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const goodLine = `{"id":"%s","word":{"writing":"犬","reading":"いぬ"},"fragments":[{"kind":"tag","text":"Noun"},{"kind":"entry","entry":{"meaning_text":"dog"}}]}`

func good(id string) string {
	return strings.Replace(goodLine, "%s", id, 1)
}

const (
	danglingLine   = `{"id":"dangling","word":{"writing":"犬","reading":"いぬ"},"fragments":[{"kind":"tag","text":"Noun"}]}`
	entryFirstLine = `{"id":"entry-first","word":{"writing":"犬","reading":"いぬ"},"fragments":[{"kind":"entry","entry":{"meaning_text":"dog"}}]}`
	unknownTagLine = `{"id":"unknown","word":{"writing":"犬","reading":"いぬ"},"fragments":[{"kind":"tag","text":"Made-up tag"},{"kind":"entry","entry":{"meaning_text":"dog"}}]}`
	brokenLine     = `{"id": "broken", "word": `
)

func TestImportReader_MixedInput(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		good("a"),
		danglingLine,
		"",
		brokenLine,
		good("b"),
		entryFirstLine,
		unknownTagLine,
		good("c"),
	}, "\n")

	store := &fakeStore{}
	im := New(discardLogger(), store, tags.Default(), Config{Workers: 3, BatchSize: 2})

	res, err := im.ImportReader(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 7, res.Documents)
	assert.Equal(t, 4, res.Parsed)
	assert.Equal(t, 3, res.Failed)
	assert.Equal(t, 4, res.Stored)
	assert.Equal(t, map[string]int{
		domain.KindDanglingGroup:   1,
		domain.KindStartsWithEntry: 1,
		domain.KindValidation:      1,
	}, res.FailuresByKind)
	assert.Equal(t, map[string]int{"Made-up tag": 1}, res.UnknownTags)

	assert.Equal(t, 1, store.txCalls)

	// Input order is preserved and batches respect BatchSize.
	assert.Equal(t, []string{"a", "b", "unknown", "c"}, store.saved())
	require.Len(t, store.batches, 2)

	require.Len(t, store.failures, 3)
	assert.Equal(t, "dangling", store.failures[0].DocumentID)
	assert.Equal(t, "line:4", store.failures[1].DocumentID)
	assert.Equal(t, domain.KindValidation, store.failures[1].Kind)
	assert.Equal(t, "entry-first", store.failures[2].DocumentID)
}

func TestImport_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	im := New(discardLogger(), store, tags.Default(), Config{Workers: 2, DryRun: true})

	res, err := im.ImportReader(context.Background(), strings.NewReader(good("a")+"\n"+danglingLine))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Parsed)
	assert.Equal(t, 1, res.Failed)
	assert.Zero(t, res.Stored)
	assert.Empty(t, store.batches)
	assert.Empty(t, store.failures)
	assert.Zero(t, store.txCalls)
}

func TestImport_FailFastStopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	im := New(discardLogger(), store, tags.Default(), Config{Workers: 1, FailFast: true})

	_, err := im.ImportReader(context.Background(), strings.NewReader(good("a")+"\n"+entryFirstLine+"\n"+good("b")))
	require.Error(t, err)

	var startsWith *domain.StartsWithEntryError
	assert.ErrorAs(t, err, &startsWith)
	assert.Empty(t, store.batches)
}

func TestImport_StoreErrorIsReturned(t *testing.T) {
	t.Parallel()

	store := &fakeStore{saveErr: errors.New("disk full")}
	im := New(discardLogger(), store, tags.Default(), Config{})

	res, err := im.ImportReader(context.Background(), strings.NewReader(good("a")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, res.Stored)
}

func TestImport_RecordFailuresErrorRollsBackEntries(t *testing.T) {
	t.Parallel()

	store := &fakeStore{recordErr: errors.New("connection reset")}
	im := New(discardLogger(), store, tags.Default(), Config{BatchSize: 1})

	res, err := im.ImportReader(context.Background(), strings.NewReader(good("a")+"\n"+good("b")+"\n"+danglingLine))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record failures")
	assert.Zero(t, res.Stored)
	assert.Equal(t, 1, store.txCalls)
	assert.Empty(t, store.batches, "entries written before the failure must not survive")
	assert.Empty(t, store.failures)
}

func TestImport_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	im := New(discardLogger(), &fakeStore{}, tags.Default(), Config{})
	_, err := im.ImportReader(ctx, strings.NewReader(good("a")))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_IsIdempotent(t *testing.T) {
	t.Parallel()

	docs := []jisho.Document{
		{ID: "x", Word: jisho.WordInput{Writing: "猫", Reading: "ねこ"}, Fragments: []jisho.FragmentInput{
			{Kind: jisho.FragmentTag, Text: "Noun"},
			{Kind: jisho.FragmentEntry, Entry: &jisho.EntryRecord{}},
		}},
	}

	first, second := &fakeStore{}, &fakeStore{}
	_, err := New(discardLogger(), first, tags.Default(), Config{}).Run(context.Background(), docs)
	require.NoError(t, err)
	_, err = New(discardLogger(), second, tags.Default(), Config{}).Run(context.Background(), docs)
	require.NoError(t, err)

	require.Len(t, first.batches, 1)
	require.Len(t, second.batches, 1)
	a, b := first.batches[0][0], second.batches[0][0]
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.Meanings, b.Meanings)
	assert.Equal(t, a.Word, b.Word)
}

func TestImportFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(good("a")+"\n"+good("b")+"\n"), 0o644))

	store := &fakeStore{}
	res, err := New(discardLogger(), store, tags.Default(), Config{Workers: 4}).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stored)

	_, err = New(discardLogger(), store, tags.Default(), Config{}).ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
}

func TestBatchProcess(t *testing.T) {
	t.Parallel()

	var sizes []int
	total, err := batchProcess([]int{1, 2, 3, 4, 5}, 2, func(b []int) (int, error) {
		sizes = append(sizes, len(b))
		return len(b), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, []int{2, 2, 1}, sizes)

	total, err = batchProcess([]int{}, 2, func(b []int) (int, error) { return 0, errors.New("unreachable") })
	require.NoError(t, err)
	assert.Zero(t, total)
}
