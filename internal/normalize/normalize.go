package normalize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"packsmith/internal/services/ffmpeg"
)

// ErrInvalidSubmission marks failures caused by the submitted file itself:
// undeclared or unsupported media types, undecodable content, or images too
// small to tile the original. Callers reject the submission and keep the claim
// active; anything not wrapping this sentinel is an internal failure.
var ErrInvalidSubmission = errors.New("invalid submission")

// MediaType is the closed set of submission kinds the normalizer accepts.
type MediaType int

const (
	// MediaImage submissions are re-tiled and re-encoded as PNG.
	MediaImage MediaType = iota
	// MediaAudio submissions are downmixed, resampled, and re-encoded as Ogg.
	MediaAudio
)

// DetectMediaType resolves a declared content type into a MediaType once, at
// validation time. Unknown types are a submission rejection.
func DetectMediaType(declared string) (MediaType, error) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	switch {
	case strings.HasPrefix(declared, "image/"):
		return MediaImage, nil
	case strings.HasPrefix(declared, "audio/"):
		return MediaAudio, nil
	default:
		return 0, fmt.Errorf("%w: unsupported media type %q", ErrInvalidSubmission, declared)
	}
}

// Normalizer applies the deterministic transforms that make a submission
// structurally compatible with the asset it replaces. Both transforms operate
// on in-memory buffers; only the original reference image is read from disk.
type Normalizer struct {
	transcoder ffmpeg.Transcoder
	sampleRate int
	channels   int
}

// New constructs a Normalizer using the given audio transcoder.
func New(transcoder ffmpeg.Transcoder, channels, sampleRate int) (*Normalizer, error) {
	if transcoder == nil {
		return nil, errors.New("transcoder required")
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("invalid audio settings: channels=%d sample_rate=%d", channels, sampleRate)
	}
	return &Normalizer{
		transcoder: transcoder,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// Normalize canonicalizes submitted bytes against the original asset at
// originalPath. The returned buffer is ready to write into the replacement
// tree.
func (n *Normalizer) Normalize(ctx context.Context, mediaType MediaType, submitted []byte, originalPath string) ([]byte, error) {
	switch mediaType {
	case MediaImage:
		return n.normalizeImage(submitted, originalPath)
	case MediaAudio:
		return n.normalizeAudio(ctx, submitted)
	default:
		return nil, fmt.Errorf("%w: unknown media type %d", ErrInvalidSubmission, mediaType)
	}
}

func (n *Normalizer) normalizeAudio(ctx context.Context, submitted []byte) ([]byte, error) {
	out, err := n.transcoder.Transcode(ctx, submitted, n.channels, n.sampleRate)
	if err != nil {
		if errors.Is(err, ffmpeg.ErrDecode) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
		return nil, err
	}
	return out, nil
}
