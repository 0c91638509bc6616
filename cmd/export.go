package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/afterpaths/internal"
	"github.com/iksnae/afterpaths/internal/export"
	"github.com/spf13/cobra"
)

const stdoutTarget = "-"

var (
	format        string
	outputDir     string
	exportProject string
	exportSource  string
	exportType    string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export sessions to file",
	Long: `Export sessions to various formats (jsonl, md, yaml, json).

Without a session ID every session matching the filters is exported, one file
per session named <source>-<session-id>.<ext>. Use --out - to write to stdout.

Examples:
  afterpaths export --format md --out ./exports
  afterpaths export 5f1c --format json --out -
  afterpaths export --project /home/me/app --source claude_code`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}
		sessionType, err := parseSessionType(exportType)
		if err != nil {
			return err
		}

		registry, err := newRegistry()
		if err != nil {
			return err
		}

		var sessions []internal.SessionInfo
		ctx := context.Background()
		progress := cmd.ErrOrStderr()

		steps := []internal.ProgressStep{
			{
				Message: "Collecting sessions",
				Fn: func() error {
					if len(args) == 1 {
						info, err := registry.FindSession(args[0], exportSource)
						if err != nil {
							return err
						}
						sessions = []internal.SessionInfo{info}
						return nil
					}
					sessions = filterSessions(registry.ListAllSessions(exportProject), exportSource, sessionType)
					return nil
				},
			},
		}
		if err := internal.ShowProgressWithSteps(ctx, progress, steps); err != nil {
			return err
		}

		if len(sessions) == 0 {
			internal.PrintWarning(progress, "No sessions matched, nothing exported")
			return nil
		}

		if outputDir == stdoutTarget {
			for _, info := range sessions {
				if err := exportSession(registry, exporter, info, cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return nil
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		err = internal.ShowProgress(ctx, progress, fmt.Sprintf("Exporting %d session(s) to %s", len(sessions), outputDir), func() error {
			for _, info := range sessions {
				path := filepath.Join(outputDir, export.FileName(info, exporter))
				if err := exportSessionFile(registry, exporter, info, path); err != nil {
					internal.LogError("Failed to export session %s: %v", info.SessionID, err)
					continue
				}
				exported++
			}
			return nil
		})
		if err != nil {
			return err
		}

		internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d session(s) exported to %s", exported, outputDir))
		return nil
	},
}

func exportSessionFile(registry *internal.Registry, exporter export.Exporter, info internal.SessionInfo, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if err := exportSession(registry, exporter, info, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func exportSession(registry *internal.Registry, exporter export.Exporter, info internal.SessionInfo, w io.Writer) error {
	entries, err := registry.ReadSession(info)
	if err != nil {
		return err
	}
	return exporter.Export(info, entries, w)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory, or - for stdout")
	exportCmd.Flags().StringVarP(&exportProject, "project", "p", "", "Only sessions for this project path")
	exportCmd.Flags().StringVarP(&exportSource, "source", "s", "", "Only sessions from this source")
	exportCmd.Flags().StringVarP(&exportType, "type", "t", "", "Only main or agent sessions")
}
