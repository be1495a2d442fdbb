package updater

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/z3rofork/Ares/internal/env"
)

// DefaultBaseURL is the canonical endpoint for release documents.
const DefaultBaseURL = "https://updates.z3rofork.dev/ares"

// releaseKey is the base64 ed25519 public key that signs production release
// documents. ARES_UPDATER_PUBLIC_KEY overrides it for tests.
const releaseKey = "cKK/8rjqH84wP1walWwt5KIwS7sJWzoe8PuXdrhDlTk="

// Release lists the builds published for one version on one channel.
type Release struct {
	Version string  `json:"version"`
	Assets  []Asset `json:"assets"`
}

// Asset is one platform build: the full binary plus an optional BSDiff
// patch reaching it from a single prior version.
type Asset struct {
	OS     string `json:"os"`
	Arch   string `json:"arch"`
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
	Patch  *Patch `json:"patch,omitempty"`
}

// Patch describes a binary diff from one specific prior version.
type Patch struct {
	From   string `json:"from"`
	URL    string `json:"url"`
	SHA256 string `json:"sha256"`
}

func (r Release) assetFor(goos, goarch string) (Asset, bool) {
	for _, a := range r.Assets {
		if strings.EqualFold(a.OS, goos) && strings.EqualFold(a.Arch, goarch) {
			return a, true
		}
	}
	return Asset{}, false
}

// fetchRelease downloads <base>/<channel>/release.json plus its detached
// signature, verifies the signature against the release key, and decodes the
// document.
func fetchRelease(ctx context.Context, client *http.Client, baseURL, channel, userAgent string) (Release, error) {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	docURL := base + "/" + channel + "/release.json"

	doc, err := fetch(ctx, client, docURL, userAgent)
	if err != nil {
		return Release{}, err
	}
	rawSig, err := fetch(ctx, client, docURL+".sig", userAgent)
	if err != nil {
		return Release{}, fmt.Errorf("download release signature: %w", err)
	}
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(rawSig)))
	if err != nil {
		return Release{}, fmt.Errorf("decode release signature: %w", err)
	}
	key, err := signingKey()
	if err != nil {
		return Release{}, err
	}
	if len(sig) != ed25519.SignatureSize || !ed25519.Verify(key, doc, sig) {
		return Release{}, errors.New("release signature verification failed")
	}

	var rel Release
	if err := json.Unmarshal(doc, &rel); err != nil {
		return Release{}, fmt.Errorf("decode release: %w", err)
	}
	if strings.TrimSpace(rel.Version) == "" {
		return Release{}, errors.New("release missing version")
	}
	if len(rel.Assets) == 0 {
		return Release{}, errors.New("release missing assets")
	}
	return rel, nil
}

func signingKey() (ed25519.PublicKey, error) {
	encoded := releaseKey
	if override, ok := env.Lookup("ARES_UPDATER_PUBLIC_KEY", ""); ok && strings.TrimSpace(override) != "" {
		encoded = strings.TrimSpace(override)
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode updater public key: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("updater public key has length %d, want %d", len(key), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(key), nil
}

// fetch is the single HTTP GET path for release documents, signatures, and
// artifacts.
func fetch(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("construct request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("download %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// checksum decodes a hex SHA-256 digest.
func checksum(hexSum string) ([]byte, error) {
	sum, err := hex.DecodeString(strings.TrimSpace(hexSum))
	if err != nil {
		return nil, fmt.Errorf("decode checksum: %w", err)
	}
	if len(sum) != sha256.Size {
		return nil, fmt.Errorf("checksum has length %d, want %d", len(sum), sha256.Size)
	}
	return sum, nil
}
