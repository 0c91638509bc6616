package internal

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/afterpaths/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "valid database",
			setup: func(t *testing.T) string {
				dbPath := filepath.Join(t.TempDir(), "state.vscdb")
				testutil.CreateStateDB(t, dbPath)
				return dbPath
			},
			wantErr: false,
		},
		{
			name: "non-existent database",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "nonexistent.vscdb")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := tt.setup(t)
			db, err := OpenDatabase(dbPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if db != nil {
				db.Close()
			}
		})
	}
}

func TestOpenDatabaseDoesNotCreateFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.vscdb")
	if _, err := OpenDatabase(dbPath); err == nil {
		t.Fatal("OpenDatabase() should fail for a missing file")
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("OpenDatabase() created %s", dbPath)
	}
}

func TestOpenDatabaseIsReadOnly(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	testutil.CreateStateDB(t, dbPath, testutil.Item{Key: "k", Value: "v"})

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("INSERT INTO ItemTable (key, value) VALUES ('x', 'y')"); err == nil {
		t.Error("write through a read-only handle should fail")
	}
}

func TestReadOnlyDSN(t *testing.T) {
	dsn := readOnlyDSN("/tmp/ws 1/state.vscdb")
	if !strings.HasPrefix(dsn, "file:///tmp/") {
		t.Errorf("readOnlyDSN() = %q, want file:///tmp/ prefix", dsn)
	}
	if !strings.HasSuffix(dsn, "?mode=ro") {
		t.Errorf("readOnlyDSN() = %q, want ?mode=ro suffix", dsn)
	}
	if strings.Contains(dsn, " ") {
		t.Errorf("readOnlyDSN() = %q, spaces should be escaped", dsn)
	}
}

func TestQueryItemTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	testutil.CreateStateDB(t, dbPath,
		testutil.Item{Key: KeyChatData, Value: `[]`},
		testutil.Item{Key: KeyComposerData, Value: `{"composers":{}}`},
		testutil.Item{Key: KeyPromptHistory, Null: true},
		testutil.Item{Key: "unrelated", Value: "x"},
	)

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer db.Close()

	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"all chat keys", chatKeys, 2},
		{"single key", []string{KeyChatData}, 1},
		{"missing key", []string{"nope"}, 0},
		{"no keys", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := QueryItemTable(db, tt.keys...)
			if err != nil {
				t.Fatalf("QueryItemTable() error = %v", err)
			}
			if len(pairs) != tt.want {
				t.Errorf("QueryItemTable() returned %d pairs, want %d", len(pairs), tt.want)
			}
			for _, pair := range pairs {
				if pair.Key == "" || pair.Value == nil {
					t.Errorf("pair %+v has empty key or nil value", pair)
				}
			}
		})
	}
}

func TestQueryItemTableMissingTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	testutil.CreateDBWithoutItemTable(t, dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer db.Close()

	if _, err := QueryItemTable(db, KeyChatData); err == nil {
		t.Error("QueryItemTable() should fail when ItemTable is missing")
	}
}
