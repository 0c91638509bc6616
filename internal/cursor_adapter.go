package internal

import (
	"encoding/json"
	"os"
)

// CursorSourceName identifies sessions read from Cursor workspace stores
const CursorSourceName = "cursor"

const summaryMaxRunes = 60

// CursorAdapter reads chats from Cursor's per-workspace state.vscdb stores.
//
// Each store can hold several chat formats at once: a flat list of chats,
// a tabbed chat panel and composer sessions. All of them are recovered.
type CursorAdapter struct {
	workspaceStorage string
	normalizer       *Normalizer
}

// NewCursorAdapter creates an adapter rooted at a workspaceStorage directory
func NewCursorAdapter(workspaceStorage string) *CursorAdapter {
	return &CursorAdapter{
		workspaceStorage: workspaceStorage,
		normalizer:       NewNormalizer(),
	}
}

// Name returns the source name
func (a *CursorAdapter) Name() string { return CursorSourceName }

// Root returns the workspaceStorage directory
func (a *CursorAdapter) Root() string { return a.workspaceStorage }

// IsAvailable checks that the workspaceStorage directory exists
func (a *CursorAdapter) IsAvailable() bool {
	return dirExists(a.workspaceStorage)
}

// ListSessions returns one SessionInfo per recovered chat. Workspaces whose
// resolved project differs from a non-empty projectFilter are not opened.
// Sessions in the same store share its modification time and size.
func (a *CursorAdapter) ListSessions(projectFilter string) []SessionInfo {
	var sessions []SessionInfo

	for _, ws := range DetectWorkspaces(a.workspaceStorage) {
		if projectFilter != "" && ws.Project != projectFilter {
			continue
		}

		stat, err := os.Stat(ws.StorePath)
		if err != nil {
			LogDebug("Skipping workspace %s: %v", ws.Hash, err)
			continue
		}

		scan := ScanStore(ws.StorePath)
		logScanFailures(scan)

		for _, chat := range scan.Chats {
			sessions = append(sessions, SessionInfo{
				SessionID: chat.ID,
				Source:    a.Name(),
				Project:   ws.Project,
				Path:      ws.StorePath,
				Modified:  stat.ModTime(),
				Size:      stat.Size(),
				Summary:   chatSummary(chat.Record),
			})
		}
	}

	return sessions
}

// ReadSession re-scans the session's store and normalizes its messages.
// A session that vanished since listing yields no entries.
func (a *CursorAdapter) ReadSession(info SessionInfo) ([]SessionEntry, error) {
	if err := checkSource(a, info); err != nil {
		return nil, err
	}

	scan := ScanStore(info.Path)
	logScanFailures(scan)

	chat, ok := scan.Find(info.SessionID)
	if !ok {
		LogDebug("Session %s not found in %s", info.SessionID, info.Path)
		return []SessionEntry{}, nil
	}

	entries := a.normalizer.NormalizeMessages(chat.Record["messages"])
	if entries == nil {
		entries = []SessionEntry{}
	}
	return entries, nil
}

// chatSummary prefers the chat title, then a prefix of the first message
func chatSummary(record map[string]json.RawMessage) string {
	if title := stringField(record, "title"); title != "" {
		return title
	}

	var messages []json.RawMessage
	if ClassifyShape(record["messages"]) != ShapeList || json.Unmarshal(record["messages"], &messages) != nil || len(messages) == 0 {
		return ""
	}
	first, ok := asObject(messages[0])
	if !ok {
		return ""
	}
	return truncateRunes(stringField(first, "content"), summaryMaxRunes)
}

func logScanFailures(scan *StoreScan) {
	for _, err := range scan.Failures {
		LogDebug("Degraded scan of %s: %v", scan.Path, err)
	}
}

func filterByProject(sessions []SessionInfo, projectFilter string) []SessionInfo {
	if projectFilter == "" {
		return sessions
	}
	filtered := sessions[:0]
	for _, s := range sessions {
		if s.Project == projectFilter {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
