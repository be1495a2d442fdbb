// Package updater swaps the running ares binary for a signed release build,
// preferring a BSDiff patch over a full download and keeping one backup so
// the swap can be undone.
package updater

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/z3rofork/Ares/internal/env"
)

const (
	// ChannelStable is the default release channel.
	ChannelStable = "stable"
	// ChannelBeta exposes prerelease builds.
	ChannelBeta = "beta"
)

// NormalizeChannel maps user input to a canonical channel name. Empty input
// means stable.
func NormalizeChannel(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ChannelStable:
		return ChannelStable, nil
	case ChannelBeta:
		return ChannelBeta, nil
	}
	return "", fmt.Errorf("unknown channel %q", name)
}

// State is the updater's persisted bookkeeping: the preferred channel, the
// versions involved in the last swap, and where the previous binary is kept.
type State struct {
	Channel   string    `json:"channel"`
	Current   string    `json:"current,omitempty"`
	Previous  string    `json:"previous,omitempty"`
	Backup    string    `json:"backup,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

const stateFile = "updater.json"

// StateDir resolves the directory holding updater.json: the
// ARES_UPDATER_CONFIG_DIR override when set, otherwise ~/.ares alongside the
// main config (relocatable via ARES_HOME).
func StateDir() (string, error) {
	if dir, ok := env.Lookup("ARES_UPDATER_CONFIG_DIR", ""); ok && strings.TrimSpace(dir) != "" {
		return dir, nil
	}
	if home, ok := env.Lookup("ARES_HOME", ""); ok && strings.TrimSpace(home) != "" {
		return filepath.Join(home, ".ares"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve updater state dir: %w", err)
	}
	return filepath.Join(home, ".ares"), nil
}

// LoadState reads the state stored in dir. A missing file yields the
// stable-channel default; an unknown stored channel falls back to stable
// rather than failing.
func LoadState(dir string) (State, error) {
	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{Channel: ChannelStable}, nil
		}
		return State{}, fmt.Errorf("read updater state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parse updater state: %w", err)
	}
	channel, err := NormalizeChannel(st.Channel)
	if err != nil {
		channel = ChannelStable
	}
	st.Channel = channel
	return st, nil
}

// SaveState persists st atomically via a temp file and rename.
func SaveState(dir string, st State) error {
	channel, err := NormalizeChannel(st.Channel)
	if err != nil {
		return err
	}
	st.Channel = channel

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure updater state dir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode updater state: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "updater-*.json")
	if err != nil {
		return fmt.Errorf("create temp updater state: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write updater state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp updater state: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, stateFile)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist updater state: %w", err)
	}
	return nil
}
