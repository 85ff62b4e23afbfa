package pack_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"packsmith/internal/pack"
)

func seed(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

func TestNewRejectsBadIDs(t *testing.T) {
	for _, id := range []string{"", "  ", "a/b", `a\b`, "..", "."} {
		if _, err := pack.New(t.TempDir(), id); err == nil {
			t.Fatalf("expected rejection for id %q", id)
		}
	}
}

func TestIsCompleteTracksDistributableFiles(t *testing.T) {
	storage := t.TempDir()
	p, err := pack.New(storage, "run1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	seed(t, p.OriginalRoot(),
		"textures/a.png",
		"sounds/b.ogg",
		"models/thing.json",
	)

	complete, err := p.IsComplete()
	if err != nil {
		t.Fatalf("IsComplete failed: %v", err)
	}
	if complete {
		t.Fatal("pack with remaining assets must not be complete")
	}

	if err := os.Remove(p.OriginalPath("textures/a.png")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.Remove(p.OriginalPath("sounds/b.ogg")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Only the non-distributable model file remains.
	complete, err = p.IsComplete()
	if err != nil {
		t.Fatalf("IsComplete failed: %v", err)
	}
	if !complete {
		t.Fatal("pack should be complete once distributable assets are gone")
	}
}

func TestArchiveContainsMetadataAndReplacements(t *testing.T) {
	storage := t.TempDir()
	p, err := pack.New(storage, "run1")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	seed(t, p.NewRoot(), "textures/a.png", "sounds/b.ogg")

	data, err := p.Archive()
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}

	found := map[string]bool{}
	for _, file := range reader.File {
		found[file.Name] = true
	}
	for _, want := range []string{"pack.mcmeta", "textures/a.png", "sounds/b.ogg"} {
		if !found[want] {
			t.Fatalf("archive missing %s; has %v", want, found)
		}
	}

	meta, err := reader.Open("pack.mcmeta")
	if err != nil {
		t.Fatalf("open metadata: %v", err)
	}
	defer meta.Close()
	body, err := io.ReadAll(meta)
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var decoded struct {
		Pack struct {
			PackFormat  int    `json:"pack_format"`
			Description string `json:"description"`
		} `json:"pack"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if decoded.Pack.PackFormat != 1 || decoded.Pack.Description == "" {
		t.Fatalf("unexpected metadata: %+v", decoded)
	}
}

func TestListFindsProvisionedPacks(t *testing.T) {
	storage := t.TempDir()
	p1, _ := pack.New(storage, "one")
	seed(t, p1.OriginalRoot(), "a.png")
	// Directory without the original_assets marker is not a pack.
	if err := os.MkdirAll(filepath.Join(storage, "stray"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	packs, err := pack.List(storage)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(packs) != 1 || packs[0].ID != "one" {
		t.Fatalf("unexpected packs: %+v", packs)
	}
}
