package internal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ClaudeCodeSourceName identifies sessions read from Claude Code project logs
const ClaudeCodeSourceName = "claude_code"

const (
	claudeSessionExt = ".jsonl"
	// headerScanLines bounds how far listing reads into a session file
	headerScanLines = 200
	maxLineSize     = 10 * 1024 * 1024
)

// ClaudeCodeAdapter reads Claude Code sessions stored as one JSONL file per session
// under <projects>/<encoded-project-dir>/.
type ClaudeCodeAdapter struct {
	projectsDir string
	normalizer  *Normalizer
}

// claudeLine is the subset of a JSONL line needed for listing and reading
type claudeLine struct {
	Type      string          `json:"type"`
	Summary   string          `json:"summary,omitempty"`
	CWD       string          `json:"cwd,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Message   json.RawMessage `json:"message,omitempty"`
}

// NewClaudeCodeAdapter creates an adapter rooted at a Claude Code projects directory
func NewClaudeCodeAdapter(projectsDir string) *ClaudeCodeAdapter {
	return &ClaudeCodeAdapter{
		projectsDir: projectsDir,
		normalizer:  NewNormalizer(),
	}
}

// Name returns the source name
func (a *ClaudeCodeAdapter) Name() string { return ClaudeCodeSourceName }

// Root returns the projects directory
func (a *ClaudeCodeAdapter) Root() string { return a.projectsDir }

// IsAvailable checks that the projects directory exists
func (a *ClaudeCodeAdapter) IsAvailable() bool {
	return dirExists(a.projectsDir)
}

// ListSessions returns one SessionInfo per session file
func (a *ClaudeCodeAdapter) ListSessions(projectFilter string) []SessionInfo {
	projectDirs, err := os.ReadDir(a.projectsDir)
	if err != nil {
		LogDebug("Cannot read Claude Code projects %s: %v", a.projectsDir, err)
		return nil
	}

	var sessions []SessionInfo
	for _, projectDir := range projectDirs {
		if !projectDir.IsDir() {
			continue
		}
		dir := filepath.Join(a.projectsDir, projectDir.Name())

		files, err := os.ReadDir(dir)
		if err != nil {
			LogDebug("Skipping project dir %s: %v", dir, err)
			continue
		}

		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), claudeSessionExt) {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}

			path := filepath.Join(dir, f.Name())
			header := scanClaudeHeader(path)
			project := header.cwd
			if project == "" {
				project = decodeProjectDirName(projectDir.Name())
			}

			sessions = append(sessions, SessionInfo{
				SessionID: strings.TrimSuffix(f.Name(), claudeSessionExt),
				Source:    a.Name(),
				Project:   project,
				Path:      path,
				Modified:  info.ModTime(),
				Size:      info.Size(),
				Summary:   header.summary(),
			})
		}
	}

	return filterByProject(sessions, projectFilter)
}

// ReadSession parses every user and assistant line of the session file.
// Malformed lines are skipped.
func (a *ClaudeCodeAdapter) ReadSession(info SessionInfo) ([]SessionEntry, error) {
	if err := checkSource(a, info); err != nil {
		return nil, err
	}

	entries := []SessionEntry{}

	file, err := os.Open(info.Path)
	if err != nil {
		LogDebug("Cannot open session %s: %v", info.Path, err)
		return entries, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		var line claudeLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			LogDebug("%v", &ParseError{Source: info.Path, Key: lineRef(lineNum), Err: err})
			continue
		}
		if line.Type != "user" && line.Type != "assistant" {
			continue
		}

		msg, ok := asObject(line.Message)
		if !ok {
			continue
		}
		if _, has := msg["role"]; !has {
			msg["role"] = json.RawMessage(`"` + line.Type + `"`)
		}
		if len(line.Timestamp) > 0 {
			msg["timestamp"] = line.Timestamp
		}
		entries = append(entries, a.normalizer.NormalizeMessage(msg)...)
	}

	if err := scanner.Err(); err != nil {
		LogDebug("%v", &StorageError{Path: info.Path, Op: "read", Err: err})
	}

	return entries, nil
}

// claudeHeader holds what listing learns from the start of a session file
type claudeHeader struct {
	cwd         string
	summaryLine string
	firstPrompt string
}

func (h claudeHeader) summary() string {
	if h.summaryLine != "" {
		return h.summaryLine
	}
	return truncateRunes(h.firstPrompt, summaryMaxRunes)
}

// scanClaudeHeader reads at most headerScanLines lines for cwd, summary and first prompt
func scanClaudeHeader(path string) claudeHeader {
	var header claudeHeader

	file, err := os.Open(path)
	if err != nil {
		return header
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for n := 0; n < headerScanLines && scanner.Scan(); n++ {
		var line claudeLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		if header.cwd == "" && line.CWD != "" {
			header.cwd = line.CWD
		}
		switch line.Type {
		case "summary":
			if line.Summary != "" {
				header.summaryLine = line.Summary
			}
		case "user":
			if header.firstPrompt == "" {
				header.firstPrompt = firstText(line.Message)
			}
		}
	}

	return header
}

// firstText returns the first text of a message, whether content is a string or parts
func firstText(message json.RawMessage) string {
	msg, ok := asObject(message)
	if !ok {
		return ""
	}
	for _, entry := range NewNormalizer().normalizeContent(RoleUser, msg["content"], SessionEntry{}) {
		if entry.Role == RoleUser && entry.Content != "" {
			return entry.Content
		}
	}
	return ""
}

// decodeProjectDirName turns "-home-u-proj" back into "/home/u/proj".
// The encoding is lossy: dashes inside folder names come back as slashes.
func decodeProjectDirName(name string) string {
	if !strings.HasPrefix(name, "-") {
		return name
	}
	return strings.ReplaceAll(name, "-", "/")
}

func lineRef(n int) string {
	return fmt.Sprintf("line %d", n)
}
