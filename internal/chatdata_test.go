package internal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/iksnae/afterpaths/testutil"
)

func TestClassifyShape(t *testing.T) {
	tests := []struct {
		raw  string
		want ValueShape
	}{
		{``, ShapeEmpty},
		{"  \n", ShapeEmpty},
		{`[]`, ShapeList},
		{` [{"id":1}] `, ShapeList},
		{`{}`, ShapeObject},
		{`"text"`, ShapeScalar},
		{`42`, ShapeScalar},
		{`null`, ShapeScalar},
		{`{"tabs":[`, ShapeInvalid},
		{"\xff\xfe", ShapeInvalid},
	}

	for _, tt := range tests {
		if got := ClassifyShape([]byte(tt.raw)); got != tt.want {
			t.Errorf("ClassifyShape(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestDecodeChatValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		raw     string
		wantIDs []string
		wantErr bool
	}{
		{
			name:    "chat list with ids",
			key:     KeyChatData,
			raw:     `[{"id":"abc","messages":[{"role":"user","content":"hi"}]}]`,
			wantIDs: []string{"abc"},
		},
		{
			name:    "chat list without ids uses index",
			key:     KeyChatData,
			raw:     `[{"messages":[{"content":"a"}]},{"messages":[]},{"messages":[{"content":"b"}]}]`,
			wantIDs: []string{"chat-0", "chat-2"},
		},
		{
			name:    "chat list skips non-objects",
			key:     KeyChatData,
			raw:     `["junk",{"id":7,"messages":[{"content":"x"}]}]`,
			wantIDs: []string{"7"},
		},
		{
			name:    "tabs",
			key:     KeyChatData,
			raw:     `{"tabs":[{"messages":[{"content":"a"}]},{"tabId":"t","messages":[{"content":"b"}]}]}`,
			wantIDs: []string{"tab-0", "tab-1"},
		},
		{
			name:    "tabs missing",
			key:     KeyChatData,
			raw:     `{"selectedTabId":"x"}`,
			wantIDs: nil,
		},
		{
			name:    "composers keep mapping order",
			key:     KeyComposerData,
			raw:     `{"composers":{"zz":{"messages":[]},"aa":{"messages":[]},"mm":{"messages":[]}}}`,
			wantIDs: []string{"composer-zz", "composer-aa", "composer-mm"},
		},
		{
			name:    "composers null",
			key:     KeyComposerData,
			raw:     `{"composers":null}`,
			wantIDs: nil,
		},
		{
			name:    "composers as list is unsupported",
			key:     KeyComposerData,
			raw:     `{"composers":[]}`,
			wantErr: true,
		},
		{
			name:    "composer list at top level is unsupported",
			key:     KeyComposerData,
			raw:     `[{"messages":[]}]`,
			wantErr: true,
		},
		{
			name:    "prompt history yields nothing",
			key:     KeyPromptHistory,
			raw:     `[{"text":"hi","commandType":4}]`,
			wantIDs: nil,
		},
		{
			name:    "invalid JSON",
			key:     KeyChatData,
			raw:     `[{"id":`,
			wantErr: true,
		},
		{
			name:    "empty value",
			key:     KeyChatData,
			raw:     ``,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chats, _, err := decodeChatValue(tt.key, []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeChatValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(chats) != len(tt.wantIDs) {
				t.Fatalf("decodeChatValue() returned %d chats, want %d", len(chats), len(tt.wantIDs))
			}
			for i, chat := range chats {
				if chat.ID != tt.wantIDs[i] {
					t.Errorf("chat[%d].ID = %q, want %q", i, chat.ID, tt.wantIDs[i])
				}
				if chat.Key != tt.key {
					t.Errorf("chat[%d].Key = %q, want %q", i, chat.Key, tt.key)
				}
			}
		})
	}
}

func TestDecodeChatValueUnsupportedShape(t *testing.T) {
	_, shape, err := decodeChatValue(KeyChatData, []byte(`"just a string"`))
	if !errors.Is(err, errUnsupportedShape) {
		t.Errorf("decodeChatValue() error = %v, want errUnsupportedShape", err)
	}
	if shape != ShapeScalar {
		t.Errorf("shape = %v, want scalar", shape)
	}
}

func TestScanStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	testutil.CreateStateDB(t, dbPath,
		testutil.Item{Key: KeyChatData, Value: `[{"id":"abc","messages":[{"role":"user","content":"hi"}]}]`},
		testutil.Item{Key: KeyComposerData, Value: `{"composers":{"c1":{"messages":[]}}}`},
	)

	scan := ScanStore(dbPath)
	if len(scan.Failures) != 0 {
		t.Fatalf("ScanStore() failures = %v", scan.Failures)
	}
	if len(scan.Chats) != 2 {
		t.Fatalf("ScanStore() returned %d chats, want 2", len(scan.Chats))
	}
	if scan.Chats[0].ID != "abc" || scan.Chats[1].ID != "composer-c1" {
		t.Errorf("chat order = [%s %s], want [abc composer-c1]", scan.Chats[0].ID, scan.Chats[1].ID)
	}
	if len(scan.Keys) != 2 {
		t.Errorf("ScanStore() reported %d keys, want 2", len(scan.Keys))
	}

	if _, ok := scan.Find("composer-c1"); !ok {
		t.Error("Find(composer-c1) should succeed")
	}
	if _, ok := scan.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
}

func TestScanStoreIsolatesCorruptKey(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	testutil.CreateStateDB(t, dbPath,
		testutil.Item{Key: KeyChatData, Value: `[{"id":"abc","messages":[{"content":"hi"}]}]`},
		testutil.Item{Key: KeyComposerData, Value: "{\"composers\": \xff"},
		testutil.Item{Key: KeyPromptHistory, Value: `[]`},
	)

	scan := ScanStore(dbPath)
	if len(scan.Chats) != 1 || scan.Chats[0].ID != "abc" {
		t.Fatalf("ScanStore() chats = %+v, want only abc", scan.Chats)
	}
	if len(scan.Failures) != 1 {
		t.Fatalf("ScanStore() failures = %v, want exactly one", scan.Failures)
	}

	var parseErr *ParseError
	if !errors.As(scan.Failures[0], &parseErr) {
		t.Fatalf("failure %v is not a ParseError", scan.Failures[0])
	}
	if parseErr.Key != KeyComposerData {
		t.Errorf("ParseError.Key = %q, want %q", parseErr.Key, KeyComposerData)
	}
}

func TestScanStoreDuplicateIDReplacesInPlace(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	testutil.CreateStateDB(t, dbPath,
		testutil.Item{Key: KeyChatData, Value: `[
			{"id":"one","messages":[{"content":"old"}]},
			{"id":"two","messages":[{"content":"x"}]},
			{"id":"one","messages":[{"content":"new"}]}
		]`},
	)

	scan := ScanStore(dbPath)
	if len(scan.Chats) != 2 {
		t.Fatalf("ScanStore() returned %d chats, want 2", len(scan.Chats))
	}
	chat, _ := scan.Find("one")
	if got := chatSummary(chat.Record); got != "new" {
		t.Errorf("duplicate id kept %q, want the later record", got)
	}
	if scan.Chats[0].ID != "one" {
		t.Errorf("duplicate id moved to position of later record")
	}
}

func TestScanStoreFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, path string)
		wantOp string
	}{
		{
			name:   "missing store",
			setup:  func(t *testing.T, path string) {},
			wantOp: "open",
		},
		{
			name: "store without ItemTable",
			setup: func(t *testing.T, path string) {
				testutil.CreateDBWithoutItemTable(t, path)
			},
			wantOp: "query",
		},
		{
			name: "locked store",
			setup: func(t *testing.T, path string) {
				testutil.CreateStateDB(t, path,
					testutil.Item{Key: KeyChatData, Value: `[{"id":"abc","messages":[{"content":"hi"}]}]`},
				)
				testutil.LockStore(t, path)
			},
			wantOp: "query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "state.vscdb")
			tt.setup(t, dbPath)

			scan := ScanStore(dbPath)
			if len(scan.Chats) != 0 {
				t.Errorf("ScanStore() returned %d chats, want 0", len(scan.Chats))
			}
			if len(scan.Failures) != 1 {
				t.Fatalf("ScanStore() failures = %v, want one", scan.Failures)
			}
			var storageErr *StorageError
			if !errors.As(scan.Failures[0], &storageErr) || storageErr.Op != tt.wantOp {
				t.Errorf("failure = %v, want StorageError with op %q", scan.Failures[0], tt.wantOp)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 7, "this is..."},
		{"héllo wörld", 5, "héllo..."},
	}

	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
