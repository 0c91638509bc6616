package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigEnvVar overrides the config file location
const ConfigEnvVar = "AFTERPATHS_CONFIG"

// Config holds user overrides read from config.toml
type Config struct {
	CursorStorage   string   `toml:"cursor_storage"`
	ClaudeProjects  string   `toml:"claude_projects"`
	DisabledSources []string `toml:"disabled_sources"`
	LogLevel        string   `toml:"log_level"`

	path string
}

// DefaultConfigPath returns ~/.config/afterpaths/config.toml, or the path in AFTERPATHS_CONFIG
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "afterpaths", "config.toml")
}

// LoadConfig reads a TOML config file. A missing file yields defaults;
// a file that exists but does not parse is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{path: path}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to stat config: %w", err)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		LogWarn("Unknown config key %q in %s", key.String(), path)
	}

	if cfg.LogLevel != "" {
		if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// SourceEnabled reports whether the named source is not disabled
func (c *Config) SourceEnabled(name string) bool {
	if c == nil {
		return true
	}
	for _, disabled := range c.DisabledSources {
		if disabled == name {
			return false
		}
	}
	return true
}
