package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user defaults loaded from the nodeflow config file.
type Config struct {
	// PipeStyle is the default pipe drawing style for new sessions:
	// "curved", "straight", or "angled".
	PipeStyle string `toml:"pipe_style"`

	// Grid controls whether new sessions show the background grid.
	Grid bool `toml:"grid"`

	// Zoom is the default zoom level for new sessions.
	Zoom float64 `toml:"zoom"`

	// Listen is the default address for the serve command.
	Listen string `toml:"listen"`
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() Config {
	return Config{
		PipeStyle: "curved",
		Grid:      true,
		Zoom:      1.0,
		Listen:    "127.0.0.1:7421",
	}
}

// configPath returns the config file location, honoring the
// NODEFLOW_CONFIG override used by tests.
func configPath() (string, error) {
	if p := os.Getenv("NODEFLOW_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "nodeflow", "config.toml"), nil
}

// LoadConfig reads the config file, falling back to defaults when the
// file does not exist. A malformed file is an error rather than a
// silent fallback, so typos do not quietly lose settings.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
