package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/afterpaths/internal"
	"github.com/spf13/cobra"
)

var inspectFormat string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [workspace-dir|state.vscdb]",
	Short: "Inspect how Cursor workspace stores are decoded",
	Long: `Report what each known chat key of a Cursor workspace store holds, how
many chats were recovered from it and which steps degraded.

Without an argument every workspace under the Cursor storage root is inspected.

Examples:
  afterpaths inspect
  afterpaths inspect ~/.config/Cursor/User/workspaceStorage/3f2a...
  afterpaths inspect ./state.vscdb --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectFormat != "text" && inspectFormat != "json" {
			return fmt.Errorf("invalid --format %q (expected text or json)", inspectFormat)
		}

		var storePaths []string
		if len(args) == 1 {
			storePath, err := resolveStorePath(args[0])
			if err != nil {
				return err
			}
			storePaths = append(storePaths, storePath)
		} else {
			paths, err := storagePathsFromFlags()
			if err != nil {
				return err
			}
			for _, ws := range internal.DetectWorkspaces(paths.WorkspaceStorage) {
				storePaths = append(storePaths, ws.StorePath)
			}
			if len(storePaths) == 0 {
				return fmt.Errorf("no workspace stores found under %s - use --storage to point at workspaceStorage", paths.WorkspaceStorage)
			}
		}

		reports := make([]scanReport, 0, len(storePaths))
		for _, path := range storePaths {
			reports = append(reports, newScanReport(internal.ScanStore(path)))
		}

		out := cmd.OutOrStdout()
		if inspectFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(reports)
		}
		for _, r := range reports {
			printScanReport(out, r)
		}
		return nil
	},
}

// resolveStorePath accepts a workspace directory or the store file itself
func resolveStorePath(arg string) (string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return "", fmt.Errorf("cannot inspect %s: %w", arg, err)
	}
	if !info.IsDir() {
		return arg, nil
	}
	storePath := filepath.Join(arg, "state.vscdb")
	if _, err := os.Stat(storePath); err != nil {
		return "", fmt.Errorf("no state.vscdb in %s", arg)
	}
	return storePath, nil
}

type keyReport struct {
	Key   string `json:"key"`
	Shape string `json:"shape"`
	Chats int    `json:"chats"`
}

type scanReport struct {
	Path     string      `json:"path"`
	Project  string      `json:"project"`
	Keys     []keyReport `json:"keys"`
	Sessions []string    `json:"sessions"`
	Failures []string    `json:"failures"`
}

func newScanReport(scan *internal.StoreScan) scanReport {
	r := scanReport{
		Path:     scan.Path,
		Project:  internal.ResolveWorkspaceProject(filepath.Dir(scan.Path)),
		Keys:     []keyReport{},
		Sessions: []string{},
		Failures: []string{},
	}
	for _, k := range scan.Keys {
		r.Keys = append(r.Keys, keyReport{Key: k.Key, Shape: k.Shape.String(), Chats: k.Chats})
	}
	for _, c := range scan.Chats {
		r.Sessions = append(r.Sessions, c.ID)
	}
	for _, err := range scan.Failures {
		r.Failures = append(r.Failures, err.Error())
	}
	return r
}

func printScanReport(out io.Writer, r scanReport) {
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(out, "📦 Store: %s\n", r.Path)
	fmt.Fprintf(out, "📁 Project: %s\n", r.Project)
	fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	if len(r.Keys) == 0 {
		fmt.Fprintf(out, "  (no known chat keys)\n")
	}
	for _, k := range r.Keys {
		fmt.Fprintf(out, "  • %s: %s, %d chat(s)\n", k.Key, k.Shape, k.Chats)
	}
	fmt.Fprintf(out, "📊 Sessions: %d\n", len(r.Sessions))
	for _, id := range r.Sessions {
		fmt.Fprintf(out, "  • %s\n", id)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(out, "⚠️  %s\n", f)
	}
	fmt.Fprintln(out)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
}
