package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxDepth != 10 {
		t.Errorf("MaxDepth = %d, want 10", cfg.MaxDepth)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (auto)", cfg.Workers)
	}
}

func writeHomeConfig(t *testing.T, contents string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ARES_HOME", home)
	dir := filepath.Join(home, ".ares")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadHomeFile(t *testing.T) {
	writeHomeConfig(t, `
max_depth: 4
timeout: 2s
workers: 3
regex: "^secret"
decoders:
  - base64
  - hex
`)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDepth != 4 || cfg.Timeout != 2*time.Second || cfg.Workers != 3 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Regex != "^secret" {
		t.Errorf("Regex = %q", cfg.Regex)
	}
	if len(cfg.Decoders) != 2 || cfg.Decoders[0] != "base64" {
		t.Errorf("Decoders = %v", cfg.Decoders)
	}
	// Unset keys keep their defaults.
	if cfg.NoColor {
		t.Error("NoColor should remain false")
	}
}

func TestLoadWithoutHomeDirectory(t *testing.T) {
	// os.UserHomeDir fails when HOME is unset; Load must fall back to
	// defaults instead of failing fatally.
	t.Setenv("ARES_HOME", "")
	t.Setenv("HOME", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDepth != Default().MaxDepth {
		t.Errorf("MaxDepth = %d, want default %d", cfg.MaxDepth, Default().MaxDepth)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	writeHomeConfig(t, "workers: 8\n")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.MaxDepth != 10 || cfg.Timeout != 5*time.Second {
		t.Errorf("defaults clobbered: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	writeHomeConfig(t, "max_depth: 4\ntimeout: 2s\n")
	t.Setenv("ARES_MAX_DEPTH", "7")
	t.Setenv("ARES_TIMEOUT", "90ms")
	t.Setenv("ARES_NO_COLOR", "true")
	t.Setenv("ARES_CHECKERS", "flag, english")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cfg.MaxDepth)
	}
	if cfg.Timeout != 90*time.Millisecond {
		t.Errorf("Timeout = %s, want 90ms", cfg.Timeout)
	}
	if !cfg.NoColor {
		t.Error("NoColor not applied")
	}
	if len(cfg.Checkers) != 2 || cfg.Checkers[1] != "english" {
		t.Errorf("Checkers = %v", cfg.Checkers)
	}
}

func TestInvalidValuesAreFatal(t *testing.T) {
	writeHomeConfig(t, "")
	t.Setenv("ARES_TIMEOUT", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatal("invalid ARES_TIMEOUT must fail Load")
	}
}

func TestInvalidYAMLIsFatal(t *testing.T) {
	writeHomeConfig(t, "max_depth: [broken\n")
	if _, err := Load(); err == nil {
		t.Fatal("invalid YAML must fail Load")
	}
}
