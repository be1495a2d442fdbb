package updater

import (
	"bytes"
	"context"
	"crypto"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	update "github.com/inconshreveable/go-update"
)

// Updater swaps the binary at ExecPath for a published release. Dir is the
// state directory; Version is the running version. The other fields default
// sensibly when zero.
type Updater struct {
	Dir      string
	BaseURL  string
	ExecPath string
	Version  string
	Client   *http.Client
	Out      io.Writer
}

const backupName = "ares.previous"

// Apply fetches the channel's release and swaps the binary in place, using
// the BSDiff patch when one applies to the running version and the full
// build otherwise. It returns the applied version, or "" when the release
// matches what is already installed. The stored channel preference is never
// touched; persisting it is the caller's decision.
func (u *Updater) Apply(ctx context.Context, channel string) (string, error) {
	channel, err := NormalizeChannel(channel)
	if err != nil {
		return "", err
	}
	st, err := LoadState(u.Dir)
	if err != nil {
		return "", err
	}
	rel, err := fetchRelease(ctx, u.client(), u.BaseURL, channel, u.userAgent())
	if err != nil {
		return "", err
	}

	current := u.currentVersion()
	if rel.Version == current || rel.Version == st.Current {
		return "", nil
	}
	asset, ok := rel.assetFor(runtime.GOOS, runtime.GOARCH)
	if !ok {
		return "", fmt.Errorf("release %s has no %s/%s build", rel.Version, runtime.GOOS, runtime.GOARCH)
	}

	opts, backup, err := u.swapOptions(asset.SHA256)
	if err != nil {
		return "", err
	}

	if err := u.applyPatch(ctx, asset, current, opts); err != nil {
		if !errors.Is(err, errNoPatch) {
			fmt.Fprintf(u.out(), "patch update failed (%v); downloading the full build\n", err)
		}
		if err := u.applyFull(ctx, asset, opts); err != nil {
			return "", err
		}
	}

	st.Previous = current
	st.Current = rel.Version
	st.Backup = backup
	st.UpdatedAt = time.Now().UTC()
	if err := SaveState(u.Dir, st); err != nil {
		return "", err
	}
	return rel.Version, nil
}

// Rollback restores the backup written by the last Apply and returns the
// version now installed, or "" when the state never recorded one.
func (u *Updater) Rollback() (string, error) {
	st, err := LoadState(u.Dir)
	if err != nil {
		return "", err
	}
	if st.Backup == "" {
		return "", errors.New("no previous binary recorded")
	}
	previous, err := os.ReadFile(st.Backup)
	if err != nil {
		return "", fmt.Errorf("read previous binary: %w", err)
	}

	sum := sha256.Sum256(previous)
	target, info, err := u.target()
	if err != nil {
		return "", err
	}
	opts := update.Options{
		TargetPath:  target,
		TargetMode:  info.Mode(),
		Checksum:    sum[:],
		Hash:        crypto.SHA256,
		OldSavePath: st.Backup,
	}
	if err := swap(previous, opts, "restore previous binary"); err != nil {
		return "", err
	}

	// The backup now holds the rolled-back-from binary, so a second
	// rollback rolls forward again.
	st.Current, st.Previous = st.Previous, st.Current
	st.UpdatedAt = time.Now().UTC()
	if err := SaveState(u.Dir, st); err != nil {
		return "", err
	}
	return st.Current, nil
}

var errNoPatch = errors.New("no applicable patch")

func (u *Updater) applyPatch(ctx context.Context, asset Asset, current string, opts update.Options) error {
	if asset.Patch == nil || asset.Patch.From != current {
		return errNoPatch
	}
	raw, err := fetch(ctx, u.client(), asset.Patch.URL, u.userAgent())
	if err != nil {
		return fmt.Errorf("download patch: %w", err)
	}
	want, err := checksum(asset.Patch.SHA256)
	if err != nil {
		return fmt.Errorf("patch checksum: %w", err)
	}
	got := sha256.Sum256(raw)
	if !bytes.Equal(got[:], want) {
		return fmt.Errorf("patch checksum mismatch: got %x want %x", got, want)
	}
	opts.Patcher = update.NewBSDiffPatcher()
	return swap(raw, opts, "apply patch")
}

func (u *Updater) applyFull(ctx context.Context, asset Asset, opts update.Options) error {
	raw, err := fetch(ctx, u.client(), asset.URL, u.userAgent())
	if err != nil {
		return fmt.Errorf("download full build: %w", err)
	}
	return swap(raw, opts, "apply update")
}

// swapOptions stats the target binary and prepares the go-update options
// shared by the patch and full paths, including the backup location.
func (u *Updater) swapOptions(hexSum string) (update.Options, string, error) {
	sum, err := checksum(hexSum)
	if err != nil {
		return update.Options{}, "", fmt.Errorf("release checksum: %w", err)
	}
	target, info, err := u.target()
	if err != nil {
		return update.Options{}, "", err
	}
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return update.Options{}, "", fmt.Errorf("prepare backup dir: %w", err)
	}
	backup := filepath.Join(u.Dir, backupName)
	opts := update.Options{
		TargetPath:  target,
		TargetMode:  info.Mode(),
		Checksum:    sum,
		Hash:        crypto.SHA256,
		OldSavePath: backup,
	}
	if err := opts.CheckPermissions(); err != nil {
		return update.Options{}, "", fmt.Errorf("cannot replace %s: %w", target, err)
	}
	return opts, backup, nil
}

func swap(raw []byte, opts update.Options, what string) error {
	if err := update.Apply(bytes.NewReader(raw), opts); err != nil {
		if rb := update.RollbackError(err); rb != nil {
			return fmt.Errorf("%s: %v (restoring the old binary also failed: %v)", what, err, rb)
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func (u *Updater) target() (string, os.FileInfo, error) {
	path := strings.TrimSpace(u.ExecPath)
	if path == "" {
		p, err := os.Executable()
		if err != nil {
			return "", nil, fmt.Errorf("determine executable path: %w", err)
		}
		path = p
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("stat executable: %w", err)
	}
	return path, info, nil
}

func (u *Updater) currentVersion() string {
	if v := strings.TrimSpace(u.Version); v != "" {
		return v
	}
	return "dev"
}

func (u *Updater) userAgent() string {
	return fmt.Sprintf("ares/%s (%s/%s)", u.currentVersion(), runtime.GOOS, runtime.GOARCH)
}

func (u *Updater) client() *http.Client {
	if u.Client != nil {
		return u.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (u *Updater) out() io.Writer {
	if u.Out != nil {
		return u.Out
	}
	return io.Discard
}
