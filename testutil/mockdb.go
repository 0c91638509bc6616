package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Item is one ItemTable row. Null inserts a NULL value.
type Item struct {
	Key   string
	Value string
	Null  bool
}

// CreateStateDB creates a state.vscdb-style SQLite file with an ItemTable holding items
func CreateStateDB(t *testing.T, dbPath string, items ...Item) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS ItemTable (
		key TEXT UNIQUE ON CONFLICT REPLACE,
		value BLOB
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create ItemTable: %v", err)
	}

	for _, item := range items {
		InsertItem(t, db, item)
	}
}

// CreateDBWithoutItemTable creates a SQLite file whose schema lacks ItemTable
func CreateDBWithoutItemTable(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`CREATE TABLE cursorDiskKV (key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
}

// InsertItem inserts one row into ItemTable
func InsertItem(t *testing.T, db *sql.DB, item Item) {
	t.Helper()
	var value any = item.Value
	if item.Null {
		value = nil
	}
	insertSQL := "INSERT INTO ItemTable (key, value) VALUES (?, ?)"
	if _, err := db.Exec(insertSQL, item.Key, value); err != nil {
		t.Fatalf("Failed to insert item %s: %v", item.Key, err)
	}
}

// LockStore holds an exclusive write lock on dbPath until the test ends
func LockStore(t *testing.T, dbPath string) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		t.Fatalf("Failed to get connection: %v", err)
	}
	t.Cleanup(func() {
		_, _ = conn.ExecContext(ctx, "ROLLBACK")
		_ = conn.Close()
		_ = db.Close()
	})

	if _, err := conn.ExecContext(ctx, "BEGIN EXCLUSIVE"); err != nil {
		t.Fatalf("Failed to lock database: %v", err)
	}
	if _, err := conn.ExecContext(ctx, "UPDATE ItemTable SET value = value"); err != nil {
		t.Fatalf("Failed to write under lock: %v", err)
	}
}
