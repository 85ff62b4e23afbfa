package fileutil

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ExtractZip extracts archivePath into dest. When the archive holds exactly one
// top-level directory (the zipball layout), its contents are lifted directly
// into dest so callers see a flat asset tree.
func ExtractZip(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	strip := commonTopDir(reader.File)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	for _, file := range reader.File {
		name := file.Name
		if strip != "" {
			name = strings.TrimPrefix(name, strip)
		}
		if name == "" {
			continue
		}

		target, err := securePath(dest, name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(file, target); err != nil {
			return err
		}
	}
	return nil
}

// commonTopDir returns the single top-level directory prefix shared by all
// entries, or "" when entries are not nested under one directory.
func commonTopDir(files []*zip.File) string {
	top := ""
	for _, file := range files {
		name := strings.TrimPrefix(file.Name, "./")
		idx := strings.Index(name, "/")
		if idx < 0 {
			return ""
		}
		prefix := name[:idx+1]
		if name[:idx] == ".." || name[:idx] == "." {
			return ""
		}
		if top == "" {
			top = prefix
		} else if top != prefix {
			return ""
		}
	}
	return top
}

func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}

func extractFile(file *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	in, err := file.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", file.Name, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return out.Close()
}
