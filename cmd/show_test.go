package cmd

import (
	"strings"
	"testing"
)

func TestShowCommand(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name: "cursor session",
			args: []string{"show", "abc"},
			want: []string{"Source: cursor", "Project: /home/u/proj", "Entries: 2", "User", "hi", "Assistant", "hello"},
		},
		{
			name: "unique prefix",
			args: []string{"show", "compo"},
			want: []string{"Refactor db", "go"},
		},
		{
			name: "tool call",
			args: []string{"show", "agent-42"},
			want: []string{"Type: agent", "find flaky tests", "Grep", "[Tool: Grep]"},
		},
		{
			name:    "limit",
			args:    []string{"show", "abc", "--limit", "1"},
			want:    []string{"hi", "1 more entry(ies)"},
			notWant: []string{"hello"},
		},
		{
			name:    "wrong source",
			args:    []string{"show", "abc", "--source", "claude_code"},
			wantErr: true,
		},
		{
			name:    "unknown session",
			args:    []string{"show", "nope"},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"show"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, f.args(tt.args...)...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("show error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("output missing %q:\n%s", want, stdout)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(stdout, notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, stdout)
				}
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"short line", "hello world", 80, "hello world"},
		{"wraps at width", "aaa bbb ccc", 7, "aaa bbb\nccc"},
		{"keeps newlines", "one\ntwo", 80, "one\ntwo"},
		{"long word", "abcdefghij xy", 5, "abcdefghij\nxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.input, tt.width); got != tt.want {
				t.Errorf("wrapText() = %q, want %q", got, tt.want)
			}
		})
	}
}
