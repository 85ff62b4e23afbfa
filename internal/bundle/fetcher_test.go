package bundle_test

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"packsmith/internal/bundle"
	"packsmith/internal/config"
	"packsmith/internal/pack"
)

func zipball(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, body := range entries {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := entry.Write([]byte(body)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newFetcher(t *testing.T, repoURL string) *bundle.Fetcher {
	t.Helper()
	cfg := config.Default()
	cfg.Bundle.AssetRepo = repoURL
	cfg.Bundle.DownloadTimeout = 5
	return bundle.NewFetcher(&cfg, nil)
}

func TestSanitizeVersion(t *testing.T) {
	cases := map[string]string{
		"1.20.4":         "1.20.4",
		"1.20.4; rm -rf": "1.20.4rmrf",
		"../main":        "..main",
		"!!!":            "",
	}
	for in, want := range cases {
		if got := bundle.SanitizeVersion(in); got != want {
			t.Fatalf("SanitizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFetchExtractsBaseline(t *testing.T) {
	archive := zipball(t, map[string]string{
		"repo-main-abc/assets/minecraft/textures/stone.png": "png",
		"repo-main-abc/assets/minecraft/sounds/click.ogg":   "ogg",
	})

	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	p, err := pack.New(t.TempDir(), "run1")
	if err != nil {
		t.Fatalf("pack.New: %v", err)
	}

	fetcher := newFetcher(t, server.URL)
	if err := fetcher.Fetch(context.Background(), p, "main"); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if requestedPath != "/zipball/refs/heads/main" {
		t.Fatalf("unexpected request path %q", requestedPath)
	}
	if _, err := os.Stat(p.OriginalPath("assets/minecraft/textures/stone.png")); err != nil {
		t.Fatalf("expected extracted asset: %v", err)
	}
	if _, err := os.Stat(filepath.Join(p.Root, "bundle.zip")); err != nil {
		t.Fatalf("expected saved zipball: %v", err)
	}
}

func TestFetchFailsOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	p, err := pack.New(t.TempDir(), "run1")
	if err != nil {
		t.Fatalf("pack.New: %v", err)
	}

	fetcher := newFetcher(t, server.URL)
	if err := fetcher.Fetch(context.Background(), p, "missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if p.Exists() {
		t.Fatal("no baseline tree should exist after a failed fetch")
	}
}

func TestFetchRequiresConfiguredRepo(t *testing.T) {
	p, err := pack.New(t.TempDir(), "run1")
	if err != nil {
		t.Fatalf("pack.New: %v", err)
	}
	fetcher := newFetcher(t, "")
	if err := fetcher.Fetch(context.Background(), p, "main"); err == nil {
		t.Fatal("expected error for unconfigured repo")
	}
}

func TestFetchRejectsEmptySanitizedVersion(t *testing.T) {
	p, err := pack.New(t.TempDir(), "run1")
	if err != nil {
		t.Fatalf("pack.New: %v", err)
	}
	fetcher := newFetcher(t, "https://example.com")
	if err := fetcher.Fetch(context.Background(), p, "!!"); err == nil {
		t.Fatal("expected error for degenerate version")
	}
}
