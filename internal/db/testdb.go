package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an in-memory database with the demo backend schema,
// closed automatically when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("applying schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
