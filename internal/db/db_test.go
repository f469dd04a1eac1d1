package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database with nested path: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("Nested directories were not created")
	}
}

func TestSchema_TablesExist(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	for _, table := range []string{"watch_events", "fetch_runs"} {
		var name string
		err := db.QueryRowContext(context.Background(), "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s does not exist: %v", table, err)
		}
	}
}

func TestMigrate_AddsMissingColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	// A cache file written before the cover column existed.
	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = raw.ExecContext(context.Background(), `
		CREATE TABLE watch_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mid INTEGER NOT NULL,
			video_id TEXT NOT NULL,
			business TEXT NOT NULL DEFAULT '',
			viewed_at INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			category TEXT,
			author TEXT,
			progress INTEGER DEFAULT 0,
			duration INTEGER DEFAULT 0,
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(mid, video_id, business, viewed_at)
		)`)
	if err != nil {
		t.Fatal(err)
	}
	_ = raw.Close()

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() on old schema failed: %v", err)
	}
	defer db.Close()

	ok, err := db.hasColumn("watch_events", "cover")
	if err != nil || !ok {
		t.Errorf("cover column missing after migrate: ok=%v err=%v", ok, err)
	}

	// Running the migration again is a no-op.
	if err := db.migrate(); err != nil {
		t.Errorf("second migrate failed: %v", err)
	}
}

func TestVacuum(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	if err := db.Vacuum(); err != nil {
		t.Errorf("Vacuum failed: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := newTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Verify database is closed by trying to query
	_, err := db.QueryContext(context.Background(), "SELECT 1")
	if err == nil {
		t.Error("Expected error querying closed database")
	}
}

// Helper to create a test database
func newTestDB(t *testing.T) *DB {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	return db
}
