package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/afterpaths/internal"
	"github.com/spf13/cobra"
)

var (
	listProject string
	listCwd     bool
	listSource  string
	listType    string
	listLimit   int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	projectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)

	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available sessions",
	Long: `List sessions from every available source, most recently modified first.

Examples:
  afterpaths list --cwd                      # Sessions for the current directory
  afterpaths list --project /home/me/app     # Sessions for one project
  afterpaths list --source cursor --limit 20
  afterpaths list --type agent               # Only sub-agent sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionType, err := parseSessionType(listType)
		if err != nil {
			return err
		}

		registry, err := newRegistry()
		if err != nil {
			return err
		}
		if len(registry.Adapters()) == 0 {
			internal.PrintWarning(cmd.ErrOrStderr(), "No session sources found. Run `afterpaths sources` for details.")
		}

		var all []internal.SessionInfo
		if listCwd {
			if all, err = registry.SessionsForCwd(); err != nil {
				return err
			}
		} else {
			all = registry.ListAllSessions(listProject)
		}

		sessions := filterSessions(all, listSource, sessionType)
		total := len(sessions)
		if listLimit > 0 && listLimit < total {
			sessions = sessions[:listLimit]
		}

		displaySessions(cmd.OutOrStdout(), sessions, total)
		return nil
	},
}

// parseSessionType accepts "", "main" or "agent"
func parseSessionType(s string) (internal.SessionType, error) {
	switch internal.SessionType(s) {
	case "", internal.SessionTypeMain, internal.SessionTypeAgent:
		return internal.SessionType(s), nil
	default:
		return "", fmt.Errorf("invalid --type %q (expected main or agent)", s)
	}
}

// filterSessions keeps sessions matching a non-empty source and type
func filterSessions(sessions []internal.SessionInfo, source string, sessionType internal.SessionType) []internal.SessionInfo {
	if source == "" && sessionType == "" {
		return sessions
	}
	var filtered []internal.SessionInfo
	for _, s := range sessions {
		if source != "" && s.Source != source {
			continue
		}
		if sessionType != "" && s.SessionType() != sessionType {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

func displaySessions(out io.Writer, sessions []internal.SessionInfo, total int) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No sessions found"))
		return
	}

	header := fmt.Sprintf("📋 Found %d session(s)", total)
	if len(sessions) < total {
		header = fmt.Sprintf("📋 Showing %d of %d session(s)", len(sessions), total)
	}
	fmt.Fprintln(out, headerStyle.Render(header))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, strings.Join([]string{
		titleStyle.Render("ID"),
		titleStyle.Render("Source"),
		titleStyle.Render("Type"),
		titleStyle.Render("Project"),
		titleStyle.Render("Modified"),
		titleStyle.Render("Size"),
		titleStyle.Render("Summary"),
	}, "\t"))

	for _, s := range sessions {
		sessionType := string(s.SessionType())
		if s.SessionType() == internal.SessionTypeAgent {
			sessionType = agentStyle.Render(sessionType)
		}

		summary := s.Summary
		if summary == "" {
			summary = "Untitled"
		}
		summary = truncate(strings.Join(strings.Fields(summary), " "), 50)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			idStyle.Render(shortID(s.SessionID)),
			sourceStyle.Render(s.Source),
			sessionType,
			projectStyle.Render(truncate(projectName(s.Project), 25)),
			dateStyle.Render(humanize.Time(s.Modified)),
			dateStyle.Render(humanize.Bytes(uint64(s.Size))),
			summary,
		)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: IDs may be shortened to any unique prefix, e.g. ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render("afterpaths show "+shortID(sessions[0].SessionID)))
}

// shortID keeps ids readable in the table; prefixes are accepted by show and export
func shortID(id string) string {
	const max = 20
	runes := []rune(id)
	if len(runes) <= max {
		return id
	}
	return string(runes[:max])
}

func projectName(project string) string {
	if project == "" {
		return "—"
	}
	return filepath.Base(project)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "Only sessions for this project path")
	listCmd.Flags().BoolVar(&listCwd, "cwd", false, "Only sessions for the current working directory (overrides --project)")
	listCmd.Flags().StringVarP(&listSource, "source", "s", "", "Only sessions from this source (claude_code, cursor)")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Only main or agent sessions")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Show at most N sessions")
}
