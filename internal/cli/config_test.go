package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("NODEFLOW_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
pipe_style = "angled"
grid = false
zoom = 1.5
listen = "0.0.0.0:9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NODEFLOW_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PipeStyle != "angled" || cfg.Grid || cfg.Zoom != 1.5 || cfg.Listen != "0.0.0.0:9000" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	// Unset keys keep their defaults.
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`listen = ":8080"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NODEFLOW_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if cfg.PipeStyle != "curved" || !cfg.Grid {
		t.Errorf("defaults not preserved: %+v", cfg)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`pipe_style = [broken`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NODEFLOW_CONFIG", path)

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig on malformed file succeeded, want error")
	}
}
