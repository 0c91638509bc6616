package internal

import (
	"strings"
	"time"
)

// Role identifies who produced a normalized entry
type Role string

const (
	RoleUser       Role = "user"
	RoleAssistant  Role = "assistant"
	RoleToolResult Role = "tool_result"
)

// AgentSessionPrefix marks sessions spawned by a sub-agent
const AgentSessionPrefix = "agent-"

// SessionType classifies a session as a top-level conversation or a sub-agent run
type SessionType string

const (
	SessionTypeMain  SessionType = "main"
	SessionTypeAgent SessionType = "agent"
)

// SessionEntry is one normalized conversational unit
type SessionEntry struct {
	Role      Role           `json:"role" yaml:"role"`
	Content   string         `json:"content" yaml:"content"`
	Timestamp string         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	ToolName  string         `json:"tool_name,omitempty" yaml:"tool_name,omitempty"`
	ToolInput map[string]any `json:"tool_input,omitempty" yaml:"tool_input,omitempty"`
	IsError   bool           `json:"is_error,omitempty" yaml:"is_error,omitempty"`
	Model     string         `json:"model,omitempty" yaml:"model,omitempty"`
}

// IsToolCall reports whether the entry represents an invoked tool
func (e SessionEntry) IsToolCall() bool {
	return e.ToolName != ""
}

// SessionInfo holds one conversation's identity and metadata.
//
// Modified and Size come from the underlying store file. When several
// sessions share one store they all carry that file's values.
type SessionInfo struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	Source    string    `json:"source" yaml:"source"`
	Project   string    `json:"project" yaml:"project"`
	Path      string    `json:"path" yaml:"path"`
	Modified  time.Time `json:"modified" yaml:"modified"`
	Size      int64     `json:"size" yaml:"size"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// SessionType derives the session classification from its ID
func (s SessionInfo) SessionType() SessionType {
	if strings.HasPrefix(s.SessionID, AgentSessionPrefix) {
		return SessionTypeAgent
	}
	return SessionTypeMain
}
