// Package config resolves the Ares configuration from defaults, optional
// YAML files, and ARES_* environment overrides. CLI flags are applied on top
// by the caller and always win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/z3rofork/Ares/internal/env"
)

// Config captures every tunable the CLI recognises.
type Config struct {
	MaxDepth int           `yaml:"max_depth"`
	Timeout  time.Duration `yaml:"timeout"`
	Workers  int           `yaml:"workers"`
	Regex    string        `yaml:"regex"`
	AuditLog string        `yaml:"audit_log"`
	NoColor  bool          `yaml:"no_color"`
	Decoders []string      `yaml:"decoders"`
	Checkers []string      `yaml:"checkers"`
}

// Default returns the built-in Ares configuration.
func Default() Config {
	return Config{
		MaxDepth: 10,
		Timeout:  5 * time.Second,
		Workers:  0, // one per CPU
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. The lookup order is:
//  1. ~/.ares/config.yml (ARES_HOME relocates the base directory)
//  2. ./ares.yml
//
// Environment variables prefixed with ARES_ have the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func homeDir() (string, error) {
	if override, ok := env.Lookup("ARES_HOME", ""); ok && strings.TrimSpace(override) != "" {
		return override, nil
	}
	return os.UserHomeDir()
}

func loadHomeConfig(cfg *Config) error {
	home, err := homeDir()
	if err != nil {
		// No determinable home directory means no home config, not a
		// fatal error: $HOME may legitimately be unset in containers.
		return nil
	}
	path := filepath.Join(home, ".ares", "config.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	path := filepath.Join(wd, "ares.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig uses pointer fields so absent keys never clobber values from an
// earlier layer.
type fileConfig struct {
	MaxDepth *int     `yaml:"max_depth"`
	Timeout  *string  `yaml:"timeout"`
	Workers  *int     `yaml:"workers"`
	Regex    *string  `yaml:"regex"`
	AuditLog *string  `yaml:"audit_log"`
	NoColor  *bool    `yaml:"no_color"`
	Decoders []string `yaml:"decoders"`
	Checkers []string `yaml:"checkers"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}
	if fc.MaxDepth != nil {
		cfg.MaxDepth = *fc.MaxDepth
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(strings.TrimSpace(*fc.Timeout))
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", *fc.Timeout, err)
		}
		cfg.Timeout = d
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.Regex != nil {
		cfg.Regex = strings.TrimSpace(*fc.Regex)
	}
	if fc.AuditLog != nil {
		cfg.AuditLog = strings.TrimSpace(*fc.AuditLog)
	}
	if fc.NoColor != nil {
		cfg.NoColor = *fc.NoColor
	}
	if fc.Decoders != nil {
		cfg.Decoders = fc.Decoders
	}
	if fc.Checkers != nil {
		cfg.Checkers = fc.Checkers
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val, ok := env.Lookup("ARES_MAX_DEPTH", ""); ok {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid ARES_MAX_DEPTH %q: %w", val, err)
		}
		cfg.MaxDepth = n
	}
	if val, ok := env.Lookup("ARES_TIMEOUT", "CIPHEY_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid ARES_TIMEOUT %q: %w", val, err)
		}
		cfg.Timeout = d
	}
	if val, ok := env.Lookup("ARES_WORKERS", ""); ok {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid ARES_WORKERS %q: %w", val, err)
		}
		cfg.Workers = n
	}
	if val, ok := env.Lookup("ARES_REGEX", "CIPHEY_REGEX"); ok {
		cfg.Regex = strings.TrimSpace(val)
	}
	if val, ok := env.Lookup("ARES_AUDIT_LOG", ""); ok {
		cfg.AuditLog = strings.TrimSpace(val)
	}
	if val, ok := env.Lookup("ARES_NO_COLOR", ""); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("invalid ARES_NO_COLOR %q: %w", val, err)
		}
		cfg.NoColor = parsed
	}
	if val, ok := env.Lookup("ARES_DECODERS", ""); ok {
		cfg.Decoders = splitList(val)
	}
	if val, ok := env.Lookup("ARES_CHECKERS", ""); ok {
		cfg.Checkers = splitList(val)
	}
	return nil
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
