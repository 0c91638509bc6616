package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/afterpaths/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// rootedAdapter is implemented by adapters that read from one storage root
type rootedAdapter interface {
	internal.SourceAdapter
	Root() string
}

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show which session sources are available",
	Long: `Show every known session source with its storage root, whether it is
available on this machine and how many sessions it holds.

This command is useful for debugging storage detection.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := storagePathsFromFlags()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Session sources"))
		fmt.Fprintln(out)
		if cfg != nil && cfg.Path() != "" {
			fmt.Fprintln(out, infoStyle.Render("Config: "+cfg.Path()))
			fmt.Fprintln(out)
		}

		for _, a := range internal.DefaultAdapters(paths, nil) {
			describeSource(out, a, cfg.SourceEnabled(a.Name()))
		}

		if !paths.HasWorkspaceStorage() && !paths.HasClaudeProjects() {
			fmt.Fprintln(out)
			internal.PrintWarning(out, "No session storage found. Use --storage or --claude-projects to point at it.")
		}
		return nil
	},
}

func describeSource(out io.Writer, a internal.SourceAdapter, enabled bool) {
	root := ""
	if r, ok := a.(rootedAdapter); ok {
		root = r.Root()
	}

	switch {
	case !enabled:
		fmt.Fprintf(out, "%s %s (disabled in config)\n", warningStyle.Render("⏸"), a.Name())
	case !a.IsAvailable():
		fmt.Fprintf(out, "%s %s (not found)\n", warningStyle.Render("⚠"), a.Name())
	default:
		sessions := a.ListSessions("")
		var size int64
		seen := make(map[string]bool)
		for _, s := range sessions {
			if !seen[s.Path] {
				seen[s.Path] = true
				size += s.Size
			}
		}
		fmt.Fprintf(out, "%s %s: %d session(s), %s on disk\n",
			successStyle.Render("✓"), a.Name(), len(sessions), humanize.Bytes(uint64(size)))
	}
	if root != "" {
		fmt.Fprintf(out, "    %s\n", dateStyle.Render(root))
	}
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
