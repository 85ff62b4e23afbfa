package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"packsmith/internal/config"
	"packsmith/internal/pack"
)

// PNG encodes a width x height image with a deterministic pixel pattern.
func PNG(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 13), G: uint8(y * 17), B: uint8(x ^ y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SeedPack lays out a ready pack on disk with the given baseline assets and
// returns its handle. Asset values are written verbatim; callers use PNG for
// decodable textures.
func SeedPack(t testing.TB, cfg *config.Config, id string, assets map[string][]byte) *pack.Pack {
	t.Helper()

	p, err := pack.New(cfg.Paths.StorageRoot, id)
	if err != nil {
		t.Fatalf("pack.New: %v", err)
	}
	for relPath, data := range assets {
		WriteFile(t, p.OriginalPath(relPath), data)
	}
	if err := os.MkdirAll(p.NewRoot(), 0o755); err != nil {
		t.Fatalf("mkdir new_assets: %v", err)
	}
	return p
}
