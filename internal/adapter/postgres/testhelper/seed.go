package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueDocumentID returns a document ID that will not collide with other tests.
func UniqueDocumentID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// CountEntries returns the number of dictionary_entries rows for documentID.
func CountEntries(t *testing.T, pool *pgxpool.Pool, documentID string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM dictionary_entries WHERE document_id = $1`, documentID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: count entries: %v", err)
	}
	return n
}

// CountFailures returns the number of parse_failures rows for documentID.
func CountFailures(t *testing.T, pool *pgxpool.Pool, documentID string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM parse_failures WHERE document_id = $1`, documentID,
	).Scan(&n)
	if err != nil {
		t.Fatalf("testhelper: count failures: %v", err)
	}
	return n
}
