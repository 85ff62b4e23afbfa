package fileutil_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"packsmith/internal/fileutil"
)

func writeArchive(t *testing.T, entries map[string]string) string {
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
		t.Fatalf("close archive: %v", err)
	}

	path := filepath.Join(t.TempDir(), "bundle.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestExtractZipFlattensSingleTopDir(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"repo-abc123/assets/minecraft/textures/stone.png": "png",
		"repo-abc123/assets/minecraft/sounds/click.ogg":   "ogg",
	})

	dest := t.TempDir()
	if err := fileutil.ExtractZip(archive, dest); err != nil {
		t.Fatalf("ExtractZip failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, "assets", "minecraft", "textures", "stone.png")); err != nil {
		t.Fatalf("expected flattened path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "repo-abc123")); !os.IsNotExist(err) {
		t.Fatal("top-level directory should have been stripped")
	}
}

func TestExtractZipKeepsFlatArchives(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"a.png":       "a",
		"dir/b.png":   "b",
		"other/c.ogg": "c",
	})

	dest := t.TempDir()
	if err := fileutil.ExtractZip(archive, dest); err != nil {
		t.Fatalf("ExtractZip failed: %v", err)
	}
	for _, p := range []string{"a.png", "dir/b.png", "other/c.ogg"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(p))); err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
	}
}

func TestExtractZipRejectsEscapingEntries(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"../escape.txt": "nope",
	})

	if err := fileutil.ExtractZip(archive, t.TempDir()); err == nil {
		t.Fatal("expected error for escaping entry")
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "deep", "nested", "file.png")
	if err := fileutil.WriteFile(target, []byte("data")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	body, err := os.ReadFile(target)
	if err != nil || string(body) != "data" {
		t.Fatalf("unexpected contents: %q, %v", body, err)
	}
}
