package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ItemTable keys holding the coexisting chat storage generations
const (
	KeyPromptHistory = "aiService.prompts"
	KeyChatData      = "workbench.panel.aichat.view.aichat.chatdata"
	KeyComposerData  = "composer.composerData"
)

// chatKeys is the fixed query set, in processing order
var chatKeys = []string{KeyPromptHistory, KeyChatData, KeyComposerData}

var errUnsupportedShape = errors.New("unsupported value shape")

// ValueShape is the structural class of a stored JSON value
type ValueShape int

const (
	ShapeInvalid ValueShape = iota
	ShapeEmpty
	ShapeList
	ShapeObject
	ShapeScalar
)

func (s ValueShape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeList:
		return "list"
	case ShapeObject:
		return "object"
	case ShapeScalar:
		return "scalar"
	default:
		return "invalid"
	}
}

// ClassifyShape inspects a raw value once and reports its JSON shape
func ClassifyShape(raw []byte) ValueShape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ShapeEmpty
	}
	if !json.Valid(trimmed) {
		return ShapeInvalid
	}
	switch trimmed[0] {
	case '[':
		return ShapeList
	case '{':
		return ShapeObject
	default:
		return ShapeScalar
	}
}

// RawChat is one chat record recovered from a workspace store
type RawChat struct {
	ID     string
	Key    string
	Record map[string]json.RawMessage
}

// KeyShape reports what a store key held and how many chats it produced
type KeyShape struct {
	Key   string
	Shape ValueShape
	Chats int
}

// StoreScan is the outcome of querying one workspace store.
// Failures lists every step that degraded; Chats holds what was still recovered.
type StoreScan struct {
	Path     string
	Keys     []KeyShape
	Chats    []RawChat
	Failures []error

	index map[string]int
}

// ScanStore queries the known chat keys of a state.vscdb file.
// The connection is opened and released within the call.
func ScanStore(path string) *StoreScan {
	scan := &StoreScan{Path: path}

	db, err := OpenDatabase(path)
	if err != nil {
		scan.Failures = append(scan.Failures, &StorageError{Path: path, Op: "open", Err: err})
		return scan
	}
	defer db.Close()

	pairs, err := QueryItemTable(db, chatKeys...)
	if err != nil {
		scan.Failures = append(scan.Failures, &StorageError{Path: path, Op: "query", Err: err})
		return scan
	}

	values := make(map[string][]byte, len(pairs))
	for _, pair := range pairs {
		values[pair.Key] = pair.Value
	}

	for _, key := range chatKeys {
		value, ok := values[key]
		if !ok {
			continue
		}

		chats, shape, err := decodeChatValue(key, value)
		scan.Keys = append(scan.Keys, KeyShape{Key: key, Shape: shape, Chats: len(chats)})
		if err != nil {
			scan.Failures = append(scan.Failures, &ParseError{Source: path, Key: key, Err: err})
			continue
		}
		for _, chat := range chats {
			scan.add(chat)
		}
	}

	return scan
}

// Find returns the chat with the given session ID
func (s *StoreScan) Find(id string) (RawChat, bool) {
	if i, ok := s.index[id]; ok {
		return s.Chats[i], true
	}
	return RawChat{}, false
}

// add appends a chat; a repeated ID replaces the earlier record in place
func (s *StoreScan) add(chat RawChat) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[chat.ID]; ok {
		s.Chats[i] = chat
		return
	}
	s.index[chat.ID] = len(s.Chats)
	s.Chats = append(s.Chats, chat)
}

// decodeChatValue dispatches on key and shape to one extraction function
func decodeChatValue(key string, raw []byte) ([]RawChat, ValueShape, error) {
	shape := ClassifyShape(raw)
	switch shape {
	case ShapeEmpty:
		return nil, shape, nil
	case ShapeInvalid:
		return nil, shape, fmt.Errorf("invalid JSON (%d bytes)", len(raw))
	}

	var (
		chats []RawChat
		err   error
	)
	switch {
	case key == KeyChatData && shape == ShapeList:
		chats, err = extractChatList(raw)
	case key == KeyChatData && shape == ShapeObject:
		chats, err = extractTabs(raw)
	case key == KeyComposerData && shape == ShapeObject:
		chats, err = extractComposers(raw)
	case key == KeyPromptHistory:
		// Prompt history has no replies and yields no sessions.
		return nil, shape, nil
	default:
		return nil, shape, fmt.Errorf("%w: %s", errUnsupportedShape, shape)
	}
	if err != nil {
		return nil, shape, err
	}
	for i := range chats {
		chats[i].Key = key
	}
	return chats, shape, nil
}

// extractChatList handles the oldest format: a flat list of chats
func extractChatList(raw []byte) ([]RawChat, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to parse chat list: %w", err)
	}

	var chats []RawChat
	for i, item := range items {
		record, ok := asObject(item)
		if !ok || !hasMessages(record) {
			continue
		}
		chats = append(chats, RawChat{
			ID:     recordID(record, fmt.Sprintf("chat-%d", i)),
			Record: record,
		})
	}
	return chats, nil
}

// extractTabs handles the tabbed format: {"tabs": [...]}
func extractTabs(raw []byte) ([]RawChat, error) {
	var container struct {
		Tabs json.RawMessage `json:"tabs"`
	}
	if err := json.Unmarshal(raw, &container); err != nil {
		return nil, fmt.Errorf("failed to parse chat tabs: %w", err)
	}
	if ClassifyShape(container.Tabs) != ShapeList {
		return nil, nil
	}

	var tabs []json.RawMessage
	if err := json.Unmarshal(container.Tabs, &tabs); err != nil {
		return nil, fmt.Errorf("failed to parse chat tabs: %w", err)
	}

	var chats []RawChat
	for i, tab := range tabs {
		record, ok := asObject(tab)
		if !ok || !hasMessages(record) {
			continue
		}
		chats = append(chats, RawChat{
			ID:     recordID(record, fmt.Sprintf("tab-%d", i)),
			Record: record,
		})
	}
	return chats, nil
}

// extractComposers handles the composer format: {"composers": {id: {...}}}.
// Mapping order is preserved.
func extractComposers(raw []byte) ([]RawChat, error) {
	var container struct {
		Composers json.RawMessage `json:"composers"`
	}
	if err := json.Unmarshal(raw, &container); err != nil {
		return nil, fmt.Errorf("failed to parse composer data: %w", err)
	}
	switch ClassifyShape(container.Composers) {
	case ShapeObject:
	case ShapeInvalid, ShapeEmpty:
		return nil, nil
	default:
		if string(bytes.TrimSpace(container.Composers)) == "null" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: composers is %s", errUnsupportedShape, ClassifyShape(container.Composers))
	}

	composers := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(container.Composers, composers); err != nil {
		return nil, fmt.Errorf("failed to parse composers: %w", err)
	}

	var chats []RawChat
	for pair := composers.Oldest(); pair != nil; pair = pair.Next() {
		record, ok := asObject(pair.Value)
		if !ok {
			continue
		}
		chats = append(chats, RawChat{
			ID:     "composer-" + pair.Key,
			Record: record,
		})
	}
	return chats, nil
}

func asObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if ClassifyShape(raw) != ShapeObject {
		return nil, false
	}
	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false
	}
	return record, true
}

func hasMessages(record map[string]json.RawMessage) bool {
	var messages []json.RawMessage
	if ClassifyShape(record["messages"]) != ShapeList {
		return false
	}
	if err := json.Unmarshal(record["messages"], &messages); err != nil {
		return false
	}
	return len(messages) > 0
}

// recordID returns the record's own id, or fallback when it has none
func recordID(record map[string]json.RawMessage, fallback string) string {
	if id := scalarString(record["id"]); id != "" {
		return id
	}
	return fallback
}

// scalarString renders a JSON string or number as text; other values yield ""
func scalarString(raw json.RawMessage) string {
	if ClassifyShape(raw) != ShapeScalar {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// stringField returns a string-typed field, or "" if missing or not a string
func stringField(record map[string]json.RawMessage, name string) string {
	var s string
	if raw, ok := record[name]; ok {
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return ""
}

// truncateRunes shortens s to max runes and appends "..." when cut
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
