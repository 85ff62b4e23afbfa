package normalize

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// normalizeImage resizes the submission so each axis is the same integer
// multiple of the original's dimensions, preserving the submission's aspect
// ratio as closely as the tiling constraint allows, then re-encodes as PNG.
func (n *Normalizer) normalizeImage(submitted []byte, originalPath string) ([]byte, error) {
	origFile, err := os.Open(originalPath)
	if err != nil {
		return nil, fmt.Errorf("open original asset: %w", err)
	}
	origConfig, _, err := image.DecodeConfig(origFile)
	closeErr := origFile.Close()
	if err != nil {
		return nil, fmt.Errorf("decode original asset %s: %w", originalPath, err)
	}
	if closeErr != nil {
		return nil, closeErr
	}
	ox, oy := origConfig.Width, origConfig.Height
	if ox <= 0 || oy <= 0 {
		return nil, fmt.Errorf("original asset %s has degenerate dimensions %dx%d", originalPath, ox, oy)
	}

	src, _, err := image.Decode(bytes.NewReader(submitted))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrInvalidSubmission, err)
	}
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// The adjusted-axis arithmetic collapses to one uniform multiple: the
	// smaller per-axis scale ratio, floored. A multiple of zero would mean the
	// submission cannot tile the original even once; that is a rejection, not
	// an upscale.
	multiple := width / ox
	if m := height / oy; m < multiple {
		multiple = m
	}
	if multiple < 1 {
		return nil, fmt.Errorf("%w: image %dx%d is smaller than the original %dx%d",
			ErrInvalidSubmission, width, height, ox, oy)
	}

	target := image.NewNRGBA(image.Rect(0, 0, multiple*ox, multiple*oy))
	draw.CatmullRom.Scale(target, target.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, target); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
