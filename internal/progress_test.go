package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestShowProgress(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr bool
	}{
		{
			name:    "successful function",
			message: "Exporting",
			fn:      func() error { return nil },
			wantErr: false,
		},
		{
			name:    "function with error",
			message: "Exporting",
			fn:      func() error { return errors.New("disk full") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := ShowProgress(ctx, &buf, tt.message, tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgress() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShowProgressWithSteps(t *testing.T) {
	ctx := context.Background()

	var ran []string
	step := func(name string, err error) ProgressStep {
		return ProgressStep{Message: name, Fn: func() error {
			ran = append(ran, name)
			return err
		}}
	}

	tests := []struct {
		name    string
		steps   []ProgressStep
		wantRan []string
		wantErr bool
	}{
		{
			name:    "successful steps",
			steps:   []ProgressStep{step("one", nil), step("two", nil)},
			wantRan: []string{"one", "two"},
		},
		{
			name:    "stops at first failure",
			steps:   []ProgressStep{step("one", errors.New("boom")), step("two", nil)},
			wantRan: []string{"one"},
			wantErr: true,
		},
		{
			name:  "empty steps",
			steps: []ProgressStep{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran = nil
			var buf bytes.Buffer
			err := ShowProgressWithSteps(ctx, &buf, tt.steps)
			if (err != nil) != tt.wantErr {
				t.Errorf("ShowProgressWithSteps() error = %v, wantErr %v", err, tt.wantErr)
			}
			if strings.Join(ran, ",") != strings.Join(tt.wantRan, ",") {
				t.Errorf("ran steps %v, want %v", ran, tt.wantRan)
			}
		})
	}
}

func TestPrintHelpersWithoutTerminal(t *testing.T) {
	tests := []struct {
		name  string
		print func(w *bytes.Buffer)
		want  string
	}{
		{"success", func(w *bytes.Buffer) { PrintSuccess(w, "done") }, "done\n"},
		{"info", func(w *bytes.Buffer) { PrintInfo(w, "note") }, "note\n"},
		{"warning", func(w *bytes.Buffer) { PrintWarning(w, "careful") }, "WARNING: careful\n"},
		{"error", func(w *bytes.Buffer) { PrintError(w, "failed") }, "ERROR: failed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
