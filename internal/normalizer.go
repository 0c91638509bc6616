package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Content part discriminants
const (
	partText       = "text"
	partToolUse    = "tool_use"
	partToolResult = "tool_result"
)

var roleAliases = map[string]Role{
	"human":  RoleUser,
	"ai":     RoleAssistant,
	"system": RoleUser,
}

// NormalizeRole maps source role labels onto the normalized roles.
// Unrecognized roles pass through lower-cased.
func NormalizeRole(raw string) Role {
	lower := strings.ToLower(raw)
	if role, ok := roleAliases[lower]; ok {
		return role
	}
	return Role(lower)
}

// Normalizer converts raw chat messages to SessionEntry values
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeMessages converts a JSON list of messages, keeping their order.
// Non-object messages are skipped.
func (n *Normalizer) NormalizeMessages(raw json.RawMessage) []SessionEntry {
	if ClassifyShape(raw) != ShapeList {
		return nil
	}
	var messages []json.RawMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}

	var entries []SessionEntry
	for _, m := range messages {
		msg, ok := asObject(m)
		if !ok {
			continue
		}
		entries = append(entries, n.NormalizeMessage(msg)...)
	}
	return entries
}

// NormalizeMessage converts one message object into zero or more entries
func (n *Normalizer) NormalizeMessage(msg map[string]json.RawMessage) []SessionEntry {
	rawRole := stringField(msg, "role")
	if rawRole == "" {
		rawRole = string(RoleUser)
	}
	role := NormalizeRole(rawRole)

	base := SessionEntry{
		Timestamp: scalarString(msg["timestamp"]),
	}
	model := stringField(msg, "model")

	entries := n.normalizeContent(role, msg["content"], base)
	if model != "" {
		for i := range entries {
			if entries[i].Role == RoleAssistant {
				entries[i].Model = model
			}
		}
	}
	return entries
}

// normalizeContent flattens string or part-list content
func (n *Normalizer) normalizeContent(role Role, content json.RawMessage, base SessionEntry) []SessionEntry {
	switch ClassifyShape(content) {
	case ShapeEmpty:
		// a message without content still counts as an empty text entry
		entry := base
		entry.Role = role
		return []SessionEntry{entry}
	case ShapeScalar:
		var text string
		if !isJSONString(content) || json.Unmarshal(content, &text) != nil {
			return nil
		}
		entry := base
		entry.Role = role
		entry.Content = text
		return []SessionEntry{entry}
	case ShapeList:
	default:
		return nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(content, &parts); err != nil {
		return nil
	}

	entries := make([]SessionEntry, 0, len(parts))
	for _, part := range parts {
		if entry, ok := n.normalizePart(role, part, base); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// normalizePart classifies one content part by its "type" field
func (n *Normalizer) normalizePart(role Role, part json.RawMessage, base SessionEntry) (SessionEntry, bool) {
	entry := base

	if isJSONString(part) {
		var text string
		if err := json.Unmarshal(part, &text); err != nil {
			return entry, false
		}
		entry.Role = role
		entry.Content = text
		return entry, true
	}

	fields, ok := asObject(part)
	if !ok {
		return entry, false
	}

	switch stringField(fields, "type") {
	case partText:
		entry.Role = role
		entry.Content = stringField(fields, "text")
	case partToolUse:
		name := stringField(fields, "name")
		label := name
		if label == "" {
			label = "unknown"
		}
		entry.Role = RoleAssistant
		entry.Content = fmt.Sprintf("[Tool: %s]", label)
		entry.ToolName = name
		entry.ToolInput = objectValue(fields["input"])
	case partToolResult:
		entry.Role = RoleToolResult
		entry.Content = StringifyPayload(fields["content"])
		entry.IsError = boolField(fields, "is_error")
	default:
		return entry, false
	}
	return entry, true
}

// StringifyPayload renders a tool result payload as text.
// Strings pass through, lists holding text blocks are joined (empty texts dropped),
// anything else is compact JSON.
func StringifyPayload(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}

	var blocks []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(trimmed, &blocks); err == nil {
		var texts []string
		textBlocks := 0
		for _, b := range blocks {
			if b.Type != partText {
				continue
			}
			textBlocks++
			if b.Text != "" {
				texts = append(texts, b.Text)
			}
		}
		if textBlocks > 0 {
			return strings.Join(texts, "\n")
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

func objectValue(raw json.RawMessage) map[string]any {
	if ClassifyShape(raw) != ShapeObject {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func boolField(record map[string]json.RawMessage, name string) bool {
	var b bool
	if raw, ok := record[name]; ok {
		if err := json.Unmarshal(raw, &b); err == nil {
			return b
		}
	}
	return false
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
