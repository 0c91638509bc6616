package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/iksnae/afterpaths/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(info internal.SessionInfo, entries []internal.SessionEntry, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", info.SessionID)

	if info.Summary != "" {
		_, _ = fmt.Fprintf(w, "**Summary:** %s  \n", escapeMarkdown(info.Summary))
	}
	if info.Project != "" {
		_, _ = fmt.Fprintf(w, "**Project:** %s  \n", info.Project)
	}
	_, _ = fmt.Fprintf(w, "**Source:** %s  \n", info.Source)
	_, _ = fmt.Fprintf(w, "**Type:** %s  \n", info.SessionType())
	if !info.Modified.IsZero() {
		_, _ = fmt.Fprintf(w, "**Modified:** %s  \n", info.Modified.UTC().Format(time.RFC3339))
	}
	if info.Size > 0 {
		_, _ = fmt.Fprintf(w, "**Size:** %s  \n", humanize.Bytes(uint64(info.Size)))
	}
	_, _ = fmt.Fprintf(w, "**Entries:** %d\n\n", len(entries))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Conversation\n\n")

	for i, entry := range entries {
		writeEntry(w, entry)

		if i < len(entries)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

func writeEntry(w io.Writer, entry internal.SessionEntry) {
	var meta []string
	if entry.Timestamp != "" {
		meta = append(meta, entry.Timestamp)
	}
	if entry.Model != "" {
		meta = append(meta, entry.Model)
	}
	if entry.IsError {
		meta = append(meta, "error")
	}
	suffix := ""
	if len(meta) > 0 {
		suffix = fmt.Sprintf(" (%s)", strings.Join(meta, ", "))
	}

	_, _ = fmt.Fprintf(w, "**%s:**%s\n\n", entry.Role, suffix)

	switch {
	case entry.IsToolCall():
		_, _ = fmt.Fprintf(w, "%s\n\n", entry.Content)
		if len(entry.ToolInput) > 0 {
			input, err := json.MarshalIndent(entry.ToolInput, "", "  ")
			if err == nil {
				fence := codeFence(string(input))
				_, _ = fmt.Fprintf(w, "%sjson\n%s\n%s\n\n", fence, input, fence)
			}
		}
	case entry.Role == internal.RoleToolResult:
		fence := codeFence(entry.Content)
		_, _ = fmt.Fprintf(w, "%s\n%s\n%s\n\n", fence, strings.TrimRight(entry.Content, "\n"), fence)
	default:
		_, _ = fmt.Fprintf(w, "%s\n\n", escapeMarkdown(entry.Content))
	}
}

// codeFence returns a backtick fence longer than any backtick run in content
func codeFence(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r != '`' {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// escapeMarkdown escapes emphasis markers outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
