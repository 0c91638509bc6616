package internal

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	workspaceStoreFile      = "state.vscdb"
	workspaceDescriptorFile = "workspace.json"
	fileURIPrefix           = "file://"
)

// WorkspaceInfo represents one per-project workspace directory
type WorkspaceInfo struct {
	Hash      string // directory name, opaque
	Dir       string
	StorePath string // state.vscdb inside Dir
	Project   string // resolved folder path, or Hash when unknown
}

// DetectWorkspaces lists workspace directories under workspaceStorage that carry a store file.
// A missing or unreadable root yields no workspaces.
func DetectWorkspaces(workspaceStorage string) []WorkspaceInfo {
	entries, err := os.ReadDir(workspaceStorage)
	if err != nil {
		LogDebug("Cannot read workspace storage %s: %v", workspaceStorage, err)
		return nil
	}

	var workspaces []WorkspaceInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		hash := entry.Name()
		dir := filepath.Join(workspaceStorage, hash)
		storePath := filepath.Join(dir, workspaceStoreFile)
		if info, err := os.Stat(storePath); err != nil || info.IsDir() {
			continue
		}

		project := ResolveWorkspaceProject(dir)
		workspaces = append(workspaces, WorkspaceInfo{
			Hash:      hash,
			Dir:       dir,
			StorePath: storePath,
			Project:   project,
		})
	}

	return workspaces
}

// ResolveWorkspaceProject returns the folder recorded in workspace.json, falling
// back to the workspace directory name when the descriptor is missing or unusable.
func ResolveWorkspaceProject(workspaceDir string) string {
	if folder, ok := readWorkspaceFolder(workspaceDir); ok {
		return folder
	}
	return filepath.Base(workspaceDir)
}

func readWorkspaceFolder(workspaceDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(workspaceDir, workspaceDescriptorFile))
	if err != nil {
		return "", false
	}

	var descriptor struct {
		Folder string `json:"folder"`
	}
	if err := json.Unmarshal(data, &descriptor); err != nil {
		LogDebug("Ignoring unparsable %s in %s: %v", workspaceDescriptorFile, workspaceDir, err)
		return "", false
	}

	folder := descriptor.Folder
	if folder == "" {
		return "", false
	}
	if !strings.HasPrefix(folder, fileURIPrefix) {
		return folder, true
	}

	folder = strings.TrimPrefix(folder, fileURIPrefix)
	if decoded, err := url.PathUnescape(folder); err == nil {
		folder = decoded
	}
	if folder == "" {
		return "", false
	}
	return folder, true
}
