package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"packsmith/internal/catalog"
)

func writeTree(t *testing.T, root string, paths ...string) {
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

func TestScanTexturesRestrictedToPrimarySubtree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"assets/minecraft/textures/block/stone.png",
		"assets/minecraft/textures/item/stick.png",
		"assets/realms/textures/banner.png",
		"assets/minecraft/sounds/click.ogg",
	)

	paths, err := catalog.Scan(root, catalog.KindTexture)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 textures, got %v", paths)
	}
	for _, p := range paths {
		if p == "assets/realms/textures/banner.png" {
			t.Fatal("alternate-content subtree must be excluded")
		}
	}
}

func TestScanTexturesWithoutPrimarySubtree(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "textures/a.png", "textures/b.png", "readme.txt")

	paths, err := catalog.Scan(root, catalog.KindTexture)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected all png files matched, got %v", paths)
	}
}

func TestScanSoundsAndModels(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"assets/minecraft/sounds/ambient/cave.ogg",
		"assets/minecraft/models/block/stone.json",
		"assets/minecraft/blockstates/stone.json",
		"assets/minecraft/textures/block/stone.png",
	)

	sounds, err := catalog.Scan(root, catalog.KindSound)
	if err != nil {
		t.Fatalf("Scan sounds: %v", err)
	}
	if len(sounds) != 1 || sounds[0] != "assets/minecraft/sounds/ambient/cave.ogg" {
		t.Fatalf("unexpected sounds: %v", sounds)
	}

	models, err := catalog.Scan(root, catalog.KindModel)
	if err != nil {
		t.Fatalf("Scan models: %v", err)
	}
	if len(models) != 1 || models[0] != "assets/minecraft/models/block/stone.json" {
		t.Fatalf("unexpected models: %v", models)
	}
}

func TestModelsAreNotDistributable(t *testing.T) {
	if catalog.KindModel.Distributable() {
		t.Fatal("models must not be distributable")
	}
	if !catalog.KindTexture.Distributable() || !catalog.KindSound.Distributable() {
		t.Fatal("textures and sounds must be distributable")
	}
}

func TestParseKind(t *testing.T) {
	if kind, ok := catalog.ParseKind(" Texture "); !ok || kind != catalog.KindTexture {
		t.Fatalf("ParseKind texture: %v %v", kind, ok)
	}
	if _, ok := catalog.ParseKind("video"); ok {
		t.Fatal("expected unknown kind to fail")
	}
}
