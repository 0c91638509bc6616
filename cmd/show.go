package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/afterpaths/internal"
	"github.com/spf13/cobra"
)

var (
	showSource string
	showLimit  int
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	toolMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show entries for a specific session",
	Long: `Display the normalized entries of one session.

The session ID may be any unique prefix of a listed ID. Use --source when the
same ID exists in more than one source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry()
		if err != nil {
			return err
		}

		info, err := registry.FindSession(args[0], showSource)
		if err != nil {
			return err
		}

		entries, err := registry.ReadSession(info)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		displaySessionHeader(out, info, len(entries))

		if len(entries) == 0 {
			internal.PrintInfo(out, "No entries could be read from this session")
			return nil
		}

		toShow := entries
		if showLimit > 0 && showLimit < len(entries) {
			toShow = entries[:showLimit]
		}
		for i, entry := range toShow {
			displayEntry(out, i+1, entry, len(entries))
		}

		if showLimit > 0 && showLimit < len(entries) {
			remaining := len(entries) - showLimit
			fmt.Fprintln(out)
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more entry(ies))", remaining)))
		}

		return nil
	},
}

func displaySessionHeader(out io.Writer, info internal.SessionInfo, count int) {
	title := info.Summary
	if title == "" {
		title = info.SessionID
	}
	fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", title)))

	metaParts := []string{
		fmt.Sprintf("ID: %s", info.SessionID),
		fmt.Sprintf("Source: %s", info.Source),
		fmt.Sprintf("Type: %s", info.SessionType()),
	}
	if info.Project != "" {
		metaParts = append(metaParts, fmt.Sprintf("Project: %s", info.Project))
	}
	if !info.Modified.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Modified: %s", humanize.Time(info.Modified)))
	}
	metaParts = append(metaParts, fmt.Sprintf("Entries: %d", count))

	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayEntry(out io.Writer, index int, entry internal.SessionEntry, total int) {
	var roleStyle lipgloss.Style
	var roleLabel string

	switch {
	case entry.IsToolCall():
		roleStyle = toolMessageStyle
		roleLabel = "🔧 " + entry.ToolName
	case entry.Role == internal.RoleUser:
		roleStyle = userMessageStyle
		roleLabel = "👤 User"
	case entry.Role == internal.RoleAssistant:
		roleStyle = assistantMessageStyle
		roleLabel = "🤖 Assistant"
	case entry.Role == internal.RoleToolResult:
		roleStyle = toolMessageStyle
		roleLabel = "📎 Tool result"
		if entry.IsError {
			roleLabel += " (error)"
		}
	default:
		roleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		roleLabel = string(entry.Role)
	}

	header := roleStyle.Render(roleLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if entry.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
			header += " " + timestampStyle.Render(t.Format("15:04:05"))
		} else {
			header += " " + timestampStyle.Render(entry.Timestamp)
		}
	}
	if entry.Model != "" {
		header += " " + timestampStyle.Render(entry.Model)
	}
	fmt.Fprintln(out, header)

	content := strings.TrimSpace(entry.Content)
	if content != "" {
		content = wrapText(content, 80)
		fmt.Fprintln(out, messageContentStyle.Render(content))
	} else {
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty entry)"))
	}

	fmt.Fprintln(out)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			switch {
			case currentLine == "":
				currentLine = word
			case len(currentLine)+len(word)+1 > width:
				wrapped = append(wrapped, currentLine)
				currentLine = word
			default:
				currentLine += " " + word
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showSource, "source", "s", "", "Source of the session when its ID is ambiguous")
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Limit number of entries to show")
}
