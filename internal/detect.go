package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// StoragePaths holds the storage roots of every known source
type StoragePaths struct {
	CursorUser       string // Cursor User directory
	WorkspaceStorage string // Cursor workspaceStorage directory
	ClaudeProjects   string // Claude Code projects directory
}

// DetectStoragePaths detects the storage roots based on the operating system
func DetectStoragePaths() (StoragePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return StoragePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	cursorUser := cursorUserDir(runtime.GOOS, home, os.Getenv("APPDATA"))
	return StoragePaths{
		CursorUser:       cursorUser,
		WorkspaceStorage: filepath.Join(cursorUser, "workspaceStorage"),
		ClaudeProjects:   findClaudeProjectsDir(home),
	}, nil
}

func cursorUserDir(goos, home, appData string) string {
	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Cursor", "User")
	case "windows":
		return filepath.Join(appData, "Cursor", "User")
	default:
		return filepath.Join(home, ".config", "Cursor", "User")
	}
}

// findClaudeProjectsDir returns the first existing candidate, or the legacy default.
// Newer releases moved ~/.claude/projects to ~/.config/claude/projects.
func findClaudeProjectsDir(home string) string {
	candidates := []string{
		filepath.Join(home, ".config", "claude", "projects"),
		filepath.Join(home, ".claude", "projects"),
	}
	for _, path := range candidates {
		if dirExists(path) {
			return path
		}
	}
	return candidates[1]
}

// GetStoragePaths merges detected defaults with config and an explicit Cursor storage override.
// The override may point at workspaceStorage itself or at the Cursor User directory.
func GetStoragePaths(cfg *Config, cursorOverride string) (StoragePaths, error) {
	paths, err := DetectStoragePaths()
	if err != nil {
		return StoragePaths{}, err
	}

	if cfg != nil {
		if cfg.CursorStorage != "" {
			paths = paths.withCursorStorage(cfg.CursorStorage)
		}
		if cfg.ClaudeProjects != "" {
			paths.ClaudeProjects = cfg.ClaudeProjects
		}
	}
	if cursorOverride != "" {
		paths = paths.withCursorStorage(cursorOverride)
	}

	return paths, nil
}

func (sp StoragePaths) withCursorStorage(path string) StoragePaths {
	if filepath.Base(path) == "workspaceStorage" {
		sp.WorkspaceStorage = path
		sp.CursorUser = filepath.Dir(path)
		return sp
	}
	if dirExists(filepath.Join(path, "workspaceStorage")) {
		sp.CursorUser = path
		sp.WorkspaceStorage = filepath.Join(path, "workspaceStorage")
		return sp
	}
	sp.WorkspaceStorage = path
	sp.CursorUser = filepath.Dir(path)
	return sp
}

// HasWorkspaceStorage checks if the Cursor workspaceStorage directory exists
func (sp StoragePaths) HasWorkspaceStorage() bool {
	return dirExists(sp.WorkspaceStorage)
}

// HasClaudeProjects checks if the Claude Code projects directory exists
func (sp StoragePaths) HasClaudeProjects() bool {
	return dirExists(sp.ClaudeProjects)
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
