package internal

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Registry holds the adapters whose storage exists on this machine
type Registry struct {
	adapters []SourceAdapter
}

// DefaultAdapters returns every known adapter in fixed order, minus those disabled in cfg
func DefaultAdapters(paths StoragePaths, cfg *Config) []SourceAdapter {
	known := []SourceAdapter{
		NewClaudeCodeAdapter(paths.ClaudeProjects),
		NewCursorAdapter(paths.WorkspaceStorage),
	}

	adapters := make([]SourceAdapter, 0, len(known))
	for _, a := range known {
		if !cfg.SourceEnabled(a.Name()) {
			LogDebug("Source %s disabled by config", a.Name())
			continue
		}
		adapters = append(adapters, a)
	}
	return adapters
}

// NewRegistry keeps the candidates that report themselves available, in order
func NewRegistry(candidates ...SourceAdapter) *Registry {
	r := &Registry{}
	for _, a := range candidates {
		if a.IsAvailable() {
			LogDebug("Source %s available", a.Name())
			r.adapters = append(r.adapters, a)
		} else {
			LogDebug("Source %s not available", a.Name())
		}
	}
	return r
}

// Adapters returns the available adapters
func (r *Registry) Adapters() []SourceAdapter {
	return r.adapters
}

// Adapter finds an available adapter by name
func (r *Registry) Adapter(name string) (SourceAdapter, bool) {
	for _, a := range r.adapters {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// ListAllSessions merges every adapter's sessions, most recently modified first
func (r *Registry) ListAllSessions(projectFilter string) []SessionInfo {
	var sessions []SessionInfo
	for _, a := range r.adapters {
		sessions = append(sessions, a.ListSessions(projectFilter)...)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Modified.After(sessions[j].Modified)
	})
	return sessions
}

// SessionsForCwd lists sessions whose project equals the current working directory
func (r *Registry) SessionsForCwd() ([]SessionInfo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return r.ListAllSessions(cwd), nil
}

// ReadSession reads a session through the adapter named by its Source
func (r *Registry) ReadSession(info SessionInfo) ([]SessionEntry, error) {
	a, ok := r.Adapter(info.Source)
	if !ok {
		return nil, &UnknownSourceError{Source: info.Source}
	}
	return a.ReadSession(info)
}

// FindSession looks a session up by exact ID, or by an unambiguous ID prefix.
// An empty source matches every adapter.
func (r *Registry) FindSession(id, source string) (SessionInfo, error) {
	var matches []SessionInfo
	for _, s := range r.ListAllSessions("") {
		if source != "" && s.Source != source {
			continue
		}
		if s.SessionID == id {
			return s, nil
		}
		if strings.HasPrefix(s.SessionID, id) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return SessionInfo{}, fmt.Errorf("session not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return SessionInfo{}, fmt.Errorf("session ID %q is ambiguous (%d matches)", id, len(matches))
	}
}

// GetAllAdapters returns the available adapters for the detected storage paths
func GetAllAdapters() []SourceAdapter {
	return defaultRegistry().Adapters()
}

// ListAllSessions lists sessions from every available source, most recent first
func ListAllSessions(projectFilter string) []SessionInfo {
	return defaultRegistry().ListAllSessions(projectFilter)
}

// GetSessionsForCwd lists sessions from every available source for the working directory
func GetSessionsForCwd() ([]SessionInfo, error) {
	return defaultRegistry().SessionsForCwd()
}

func defaultRegistry() *Registry {
	paths, err := DetectStoragePaths()
	if err != nil {
		LogDebug("Storage detection failed: %v", err)
		return &Registry{}
	}
	return NewRegistry(DefaultAdapters(paths, nil)...)
}
