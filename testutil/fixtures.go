package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Store keys as written by Cursor
const (
	KeyPromptHistory = "aiService.prompts"
	KeyChatData      = "workbench.panel.aichat.view.aichat.chatdata"
	KeyComposerData  = "composer.composerData"
)

// CreateWorkspace creates <storage>/<hash>/ with a state.vscdb holding items.
// A non-empty folder is written to workspace.json as-is.
func CreateWorkspace(t *testing.T, storage, hash, folder string, items ...Item) string {
	t.Helper()
	dir := filepath.Join(storage, hash)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create workspace directory: %v", err)
	}

	if folder != "" {
		WriteWorkspaceDescriptor(t, dir, JSONMarshalString(t, map[string]string{"folder": folder}))
	}

	CreateStateDB(t, filepath.Join(dir, "state.vscdb"), items...)
	return dir
}

// WriteWorkspaceDescriptor writes raw content to <dir>/workspace.json
func WriteWorkspaceDescriptor(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "workspace.json"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write workspace.json: %v", err)
	}
}

// WriteClaudeSession writes a JSONL session file under <projects>/<projectDir>/<sessionID>.jsonl
func WriteClaudeSession(t *testing.T, projects, projectDir, sessionID string, lines ...string) string {
	t.Helper()
	dir := filepath.Join(projects, projectDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create project directory: %v", err)
	}

	path := filepath.Join(dir, sessionID+".jsonl")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write session file: %v", err)
	}
	return path
}
