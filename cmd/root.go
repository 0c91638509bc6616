package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/afterpaths/internal"
	"github.com/spf13/cobra"
)

var (
	verbose        bool
	storagePath    string
	claudeProjects string
	configPath     string
	version        string = "dev"
	commit         string = "unknown"
	date           string = "unknown"

	cfg *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "afterpaths",
	Short: "Browse and export AI coding assistant sessions",
	Long: `Read conversation logs left behind by AI coding assistants and present
them as one uniform list of sessions.

Supported sources:
  • Claude Code   (~/.claude/projects/<project>/<session>.jsonl)
  • Cursor        (<Cursor User dir>/workspaceStorage/<hash>/state.vscdb)

Sessions are normalized on every read straight from each tool's own storage;
nothing is copied or cached.

Quick Start:
  afterpaths list                       # All sessions, newest first
  afterpaths list --cwd                 # Sessions for the current directory
  afterpaths show <session-id>          # Read one conversation
  afterpaths export --format md -o out  # Export everything as Markdown
  afterpaths sources                    # Which sources were found`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetLogOutput(cmd.ErrOrStderr())

		path := configPath
		if path == "" {
			path = internal.DefaultConfigPath()
		}
		loaded, err := internal.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded

		level := internal.LogLevelWarn
		if cfg.LogLevel != "" {
			// validated by LoadConfig
			level, _ = internal.ParseLogLevel(cfg.LogLevel)
		}
		internal.SetLogLevel(level)
		if verbose {
			internal.SetVerbose(true)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		internal.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// storagePathsFromFlags merges detected paths, config and command-line overrides
func storagePathsFromFlags() (internal.StoragePaths, error) {
	paths, err := internal.GetStoragePaths(cfg, storagePath)
	if err != nil {
		return internal.StoragePaths{}, fmt.Errorf("failed to get storage paths: %w", err)
	}
	if claudeProjects != "" {
		paths.ClaudeProjects = claudeProjects
	}
	return paths, nil
}

// newRegistry builds a registry over the sources available on this machine
func newRegistry() (*internal.Registry, error) {
	paths, err := storagePathsFromFlags()
	if err != nil {
		return nil, err
	}
	return internal.NewRegistry(internal.DefaultAdapters(paths, cfg)...), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "Cursor storage location (workspaceStorage or the Cursor User directory)")
	rootCmd.PersistentFlags().StringVar(&claudeProjects, "claude-projects", "", "Claude Code projects directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/afterpaths/config.toml)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
