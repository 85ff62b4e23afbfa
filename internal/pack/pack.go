package pack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"packsmith/internal/assignment"
)

const (
	// OriginalDirName holds the immutable baseline extracted at pack creation.
	OriginalDirName = "original_assets"
	// NewDirName accumulates accepted replacements.
	NewDirName = "new_assets"
)

// Pack is one crowdsourcing run, rooted at <storage root>/<id>. The directory
// layout (original_assets/, new_assets/, assignments.db) is the on-disk
// contract surviving process restarts.
type Pack struct {
	ID   string
	Root string
}

// New builds a Pack handle under storageRoot without touching the filesystem.
func New(storageRoot, id string) (*Pack, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("pack id required")
	}
	if strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return nil, fmt.Errorf("pack id %q contains path separators", id)
	}
	return &Pack{ID: id, Root: filepath.Join(storageRoot, id)}, nil
}

// OriginalRoot returns the directory of unreplaced baseline assets.
func (p *Pack) OriginalRoot() string {
	return filepath.Join(p.Root, OriginalDirName)
}

// NewRoot returns the directory of accepted replacements.
func (p *Pack) NewRoot() string {
	return filepath.Join(p.Root, NewDirName)
}

// OriginalPath resolves a relative asset path inside the baseline tree.
func (p *Pack) OriginalPath(relPath string) string {
	return filepath.Join(p.OriginalRoot(), filepath.FromSlash(relPath))
}

// NewPath resolves a relative asset path inside the replacement tree.
func (p *Pack) NewPath(relPath string) string {
	return filepath.Join(p.NewRoot(), filepath.FromSlash(relPath))
}

// Exists reports whether the pack root has been provisioned on disk.
func (p *Pack) Exists() bool {
	info, err := os.Stat(p.OriginalRoot())
	return err == nil && info.IsDir()
}

// OpenStore opens the pack's assignment database.
func (p *Pack) OpenStore() (*assignment.Store, error) {
	return assignment.Open(p.Root)
}

// List returns the packs provisioned under storageRoot, identified by their
// directory names.
func List(storageRoot string) ([]*Pack, error) {
	entries, err := os.ReadDir(storageRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read storage root: %w", err)
	}

	var packs []*Pack
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := New(storageRoot, entry.Name())
		if err != nil {
			continue
		}
		if p.Exists() {
			packs = append(packs, p)
		}
	}
	return packs, nil
}
