package pack

import (
	"packsmith/internal/catalog"
)

// Remaining counts the distributable assets still present in the baseline
// tree, per kind.
type Remaining struct {
	Textures int
	Sounds   int
}

// Total returns the count of all remaining distributable assets.
func (r Remaining) Total() int {
	return r.Textures + r.Sounds
}

// Remaining recomputes the outstanding distributable assets from the
// filesystem. Accepted submissions delete their baseline file, so the walk is
// the ground truth; no cached counter exists to drift from it.
func (p *Pack) Remaining() (Remaining, error) {
	textures, err := catalog.Scan(p.OriginalRoot(), catalog.KindTexture)
	if err != nil {
		return Remaining{}, err
	}
	sounds, err := catalog.Scan(p.OriginalRoot(), catalog.KindSound)
	if err != nil {
		return Remaining{}, err
	}
	return Remaining{Textures: len(textures), Sounds: len(sounds)}, nil
}

// IsComplete reports whether every distributable asset has been replaced.
func (p *Pack) IsComplete() (bool, error) {
	remaining, err := p.Remaining()
	if err != nil {
		return false, err
	}
	return remaining.Total() == 0, nil
}
