package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/afterpaths/internal"
	"github.com/iksnae/afterpaths/testutil"
	"github.com/spf13/cobra"
)

// resetFlags restores flag variables, which persist between Execute calls on the shared rootCmd
func resetFlags() {
	verbose, storagePath, claudeProjects, configPath = false, "", "", ""
	listProject, listCwd, listSource, listType, listLimit = "", false, "", "", 0
	showSource, showLimit = "", 0
	format, outputDir, exportProject, exportSource, exportType = "jsonl", "./exports", "", "", ""
	inspectFormat = "text"
	cfg = nil

	cmds := append([]*cobra.Command{rootCmd}, rootCmd.Commands()...)
	for _, c := range cmds {
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
			}
		}
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(func() {
		internal.SetLogOutput(os.Stderr)
		internal.SetLogLevel(internal.LogLevelWarn)
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

type fixture struct {
	storage  string
	projects string
	config   string
}

// newFixture creates one Cursor workspace with two chats and one Claude Code agent session
func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		storage:  filepath.Join(root, "workspaceStorage"),
		projects: filepath.Join(root, "projects"),
		config:   filepath.Join(root, "config.toml"),
	}

	testutil.CreateWorkspace(t, f.storage, "a1", "file:///home/u/proj",
		testutil.Item{Key: testutil.KeyChatData, Value: `[{"id":"abc","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}]`},
		testutil.Item{Key: testutil.KeyComposerData, Value: `{"composers":{"c9":{"title":"Refactor db","messages":[{"role":"user","content":"go"}]}}}`},
	)
	testutil.WriteClaudeSession(t, f.projects, "-home-u-other", "agent-42",
		`{"type":"user","cwd":"/home/u/other","message":{"role":"user","content":"find flaky tests"}}`,
		`{"type":"assistant","message":{"role":"assistant","content":[{"type":"tool_use","name":"Grep","input":{"pattern":"t.Skip"}}]}}`,
	)
	return f
}

// chdir switches the working directory for the test and returns it as os.Getwd reports it
func chdir(t *testing.T, dir string) string {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	return wd
}

func (f fixture) args(args ...string) []string {
	return append(args, "--storage", f.storage, "--claude-projects", f.projects, "--config", f.config)
}

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "version flag", args: []string{"--version"}, want: "dev"},
		{name: "help flag", args: []string{"--help"}, want: "afterpaths list"},
		{name: "nonexistent command", args: []string{"nonexistent-command"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestRootCommand_BadConfig(t *testing.T) {
	f := newFixture(t)
	if err := os.WriteFile(f.config, []byte("log_level = ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, f.args("list")...); err == nil {
		t.Error("list with a malformed config should fail")
	}
}

func TestRootCommand_ConfigDisablesSource(t *testing.T) {
	f := newFixture(t)
	if err := os.WriteFile(f.config, []byte(`disabled_sources = ["cursor"]`), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, f.args("list")...)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if strings.Contains(stdout, "abc") {
		t.Errorf("disabled cursor source still listed:\n%s", stdout)
	}
	if !strings.Contains(stdout, "agent-42") {
		t.Errorf("claude_code session missing:\n%s", stdout)
	}
}

func TestRootCommand_VerboseLogsToStderr(t *testing.T) {
	f := newFixture(t)
	_, stderr, err := execute(t, f.args("list", "--verbose")...)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(stderr, "[DEBUG]") {
		t.Errorf("verbose run wrote no debug logs:\n%s", stderr)
	}
}
