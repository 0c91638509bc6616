package testutil

import (
	"encoding/json"
	"os"
	"testing"
	"time"
)

// JSONMarshalString marshals a value to a JSON string for testing
func JSONMarshalString(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return string(data)
}

// SetModTime sets both access and modification time of path
func SetModTime(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("Failed to set modification time of %s: %v", path, err)
	}
}
