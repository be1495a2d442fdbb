package updater

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadStateDefault(t *testing.T) {
	st, err := LoadState(t.TempDir())
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if st.Channel != ChannelStable {
		t.Fatalf("Channel = %q, want %q", st.Channel, ChannelStable)
	}
	if st.Current != "" || st.Backup != "" {
		t.Fatalf("fresh state not empty: %+v", st)
	}
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := State{
		Channel:   ChannelBeta,
		Current:   "1.2.3",
		Previous:  "1.2.2",
		Backup:    filepath.Join(dir, "ares.previous"),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := SaveState(dir, st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	loaded, err := LoadState(dir)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if loaded != st {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, st)
	}
}

func TestSaveStateCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	if err := SaveState(dir, State{Channel: ChannelStable}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "updater.json")); err != nil {
		t.Fatalf("state file missing: %v", err)
	}
}

func TestSaveStateRejectsUnknownChannel(t *testing.T) {
	if err := SaveState(t.TempDir(), State{Channel: "nightly"}); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestLoadStateUnknownChannelFallsBack(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"channel":"nightly","current":"2.0.0"}`)
	if err := os.WriteFile(filepath.Join(dir, "updater.json"), data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	st, err := LoadState(dir)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if st.Channel != ChannelStable {
		t.Fatalf("Channel = %q, want fallback to %q", st.Channel, ChannelStable)
	}
	if st.Current != "2.0.0" {
		t.Fatalf("Current = %q, want 2.0.0", st.Current)
	}
}

func TestNormalizeChannel(t *testing.T) {
	cases := map[string]string{
		"":       ChannelStable,
		"stable": ChannelStable,
		"Stable": ChannelStable,
		"beta":   ChannelBeta,
		"BETA":   ChannelBeta,
		" beta ": ChannelBeta,
	}
	for input, want := range cases {
		got, err := NormalizeChannel(input)
		if err != nil {
			t.Fatalf("NormalizeChannel(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("NormalizeChannel(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := NormalizeChannel("nightly"); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestStateDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARES_UPDATER_CONFIG_DIR", dir)
	got, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir: %v", err)
	}
	if got != dir {
		t.Fatalf("StateDir = %q, want %q", got, dir)
	}
}

func TestStateDirFollowsHome(t *testing.T) {
	t.Setenv("ARES_UPDATER_CONFIG_DIR", "")
	home := t.TempDir()
	t.Setenv("ARES_HOME", home)
	got, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir: %v", err)
	}
	if want := filepath.Join(home, ".ares"); got != want {
		t.Fatalf("StateDir = %q, want %q", got, want)
	}
}
