package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/roaster/internal/db"
)

// NewTestDB opens a migrated in-memory history database that is closed
// when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, ":memory:")
}

// NewTestDBFile opens a migrated history database file in a temp dir and
// returns it with its path, so a test can reopen the same store.
func NewTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	return openTestDB(t, path), path
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening test database %s: %v", path, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// NewTestUoW wraps conn in the production UnitOfWork.
func NewTestUoW(conn *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(conn)
}
