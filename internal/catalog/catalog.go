package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Kind classifies an asset by the role it plays in the pack.
type Kind string

const (
	KindTexture Kind = "texture"
	KindSound   Kind = "sound"
	KindModel   Kind = "model"
)

// primaryTextureSubtree is the subtree textures are restricted to when it
// exists. Alternate-content subtrees next to it are deliberately not
// distributed for replacement.
const primaryTextureSubtree = "assets/minecraft"

var allKinds = []Kind{KindTexture, KindSound, KindModel}

// AllKinds returns the known asset kinds.
func AllKinds() []Kind {
	cp := make([]Kind, len(allKinds))
	copy(cp, allKinds)
	return cp
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range allKinds {
		if kind == normalized {
			return kind, true
		}
	}
	return "", false
}

// Distributable reports whether assets of this kind are handed out for
// replacement. Model definitions are catalogued but never distributed.
func (k Kind) Distributable() bool {
	return k == KindTexture || k == KindSound
}

// Scan walks the original-assets root and returns the relative slash-separated
// paths of all assets matching the requested kind. The traversal has no side
// effects and is recomputed fresh on every call.
func Scan(root string, kind Kind) ([]string, error) {
	var matcher func(string) bool
	switch kind {
	case KindTexture:
		matcher = textureMatcher(root)
	case KindSound:
		matcher = isSound
	case KindModel:
		matcher = isModel
	default:
		return nil, fmt.Errorf("unknown asset kind %q", kind)
	}

	var paths []string
	err := fs.WalkDir(os.DirFS(root), ".", func(relPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if matcher(relPath) {
			paths = append(paths, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s assets: %w", kind, err)
	}
	return paths, nil
}

// KindOf classifies a relative asset path, using the same rules Scan applies.
func KindOf(root, relPath string) (Kind, bool) {
	switch {
	case textureMatcher(root)(relPath):
		return KindTexture, true
	case isSound(relPath):
		return KindSound, true
	case isModel(relPath):
		return KindModel, true
	default:
		return "", false
	}
}

func textureMatcher(root string) func(string) bool {
	prefix := ""
	if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(primaryTextureSubtree))); err == nil && info.IsDir() {
		prefix = primaryTextureSubtree + "/"
	}
	return func(relPath string) bool {
		if path.Ext(relPath) != ".png" {
			return false
		}
		return prefix == "" || strings.HasPrefix(relPath, prefix)
	}
}

func isSound(relPath string) bool {
	return path.Ext(relPath) == ".ogg"
}

func isModel(relPath string) bool {
	if path.Ext(relPath) != ".json" {
		return false
	}
	for _, segment := range strings.Split(path.Dir(relPath), "/") {
		if segment == "models" {
			return true
		}
	}
	return false
}
