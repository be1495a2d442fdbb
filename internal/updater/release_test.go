package updater

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// signedReleaseServer publishes *rel (and optionally extra artifact routes)
// under /stable, signed with a fresh key that is installed as the verifying
// key for the test's duration. The document is marshalled and signed per
// request, so tests may fill in server-dependent asset URLs after start.
func signedReleaseServer(t *testing.T, rel *Release, artifacts map[string][]byte) *httptest.Server {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	t.Setenv("ARES_UPDATER_PUBLIC_KEY", base64.StdEncoding.EncodeToString(pub))

	doc := func() []byte {
		data, err := json.Marshal(rel)
		if err != nil {
			t.Errorf("Marshal: %v", err)
		}
		return data
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/stable/release.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write(doc())
	})
	mux.HandleFunc("/stable/release.json.sig", func(w http.ResponseWriter, r *http.Request) {
		sig := ed25519.Sign(priv, doc())
		w.Write([]byte(base64.StdEncoding.EncodeToString(sig)))
	})
	for route, data := range artifacts {
		body := data
		mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRelease(t *testing.T) {
	rel := Release{
		Version: "1.2.3",
		Assets: []Asset{{
			OS:     "linux",
			Arch:   "amd64",
			URL:    "https://example.com/full",
			SHA256: "ab",
		}},
	}
	srv := signedReleaseServer(t, &rel, nil)

	got, err := fetchRelease(context.Background(), srv.Client(), srv.URL, ChannelStable, "ares/test")
	if err != nil {
		t.Fatalf("fetchRelease: %v", err)
	}
	if got.Version != rel.Version {
		t.Fatalf("Version = %q, want %q", got.Version, rel.Version)
	}
	asset, ok := got.assetFor("LINUX", "AMD64")
	if !ok {
		t.Fatal("assetFor should match case-insensitively")
	}
	if asset.URL != rel.Assets[0].URL {
		t.Fatalf("asset URL = %q", asset.URL)
	}
	if _, ok := got.assetFor("plan9", "386"); ok {
		t.Fatal("assetFor matched a platform the release does not carry")
	}
}

func TestFetchReleaseRejectsBadSignature(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	t.Setenv("ARES_UPDATER_PUBLIC_KEY", base64.StdEncoding.EncodeToString(pub))

	doc := []byte(`{"version":"1.0.0","assets":[{"os":"linux","arch":"amd64","url":"https://example.com","sha256":"aa"}]}`)
	mux := http.NewServeMux()
	mux.HandleFunc("/stable/release.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write(doc)
	})
	mux.HandleFunc("/stable/release.json.sig", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(base64.StdEncoding.EncodeToString(make([]byte, ed25519.SignatureSize))))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	if _, err := fetchRelease(context.Background(), srv.Client(), srv.URL, ChannelStable, "ares/test"); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestFetchReleaseRejectsEmptyDocument(t *testing.T) {
	srv := signedReleaseServer(t, &Release{Version: "1.0.0"}, nil)
	if _, err := fetchRelease(context.Background(), srv.Client(), srv.URL, ChannelStable, "ares/test"); err == nil {
		t.Fatal("expected error for release without assets")
	}
}

func TestChecksum(t *testing.T) {
	valid := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if _, err := checksum(valid); err != nil {
		t.Fatalf("checksum(%q): %v", valid, err)
	}
	for _, bad := range []string{"", "zz", "abcd"} {
		if _, err := checksum(bad); err == nil {
			t.Fatalf("checksum(%q) should fail", bad)
		}
	}
}
