package pack

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// metadataFileName is the structured document placed at the archive root.
const metadataFileName = "pack.mcmeta"

const (
	packFormat      = 1
	packDescription = "Community pack"
)

type packMetadata struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

// Archive writes the pack metadata file into the replacement tree and zips the
// tree recursively, returning the archive bytes ready for delivery.
func (p *Pack) Archive() ([]byte, error) {
	meta := packMetadata{}
	meta.Pack.PackFormat = packFormat
	meta.Pack.Description = packDescription

	encoded, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal pack metadata: %w", err)
	}
	if err := os.MkdirAll(p.NewRoot(), 0o755); err != nil {
		return nil, fmt.Errorf("ensure replacement tree: %w", err)
	}
	if err := os.WriteFile(filepath.Join(p.NewRoot(), metadataFileName), encoded, 0o644); err != nil {
		return nil, fmt.Errorf("write pack metadata: %w", err)
	}

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	root := os.DirFS(p.NewRoot())
	err = fs.WalkDir(root, ".", func(relPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		dst, err := writer.Create(relPath)
		if err != nil {
			return fmt.Errorf("create archive entry %s: %w", relPath, err)
		}
		src, err := root.Open(relPath)
		if err != nil {
			return fmt.Errorf("open %s: %w", relPath, err)
		}
		defer src.Close()
		if _, err := io.Copy(dst, src); err != nil {
			return fmt.Errorf("archive %s: %w", relPath, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
