package normalize_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"packsmith/internal/normalize"
	"packsmith/internal/services/ffmpeg"
)

type stubTranscoder struct {
	out      []byte
	err      error
	channels int
	rate     int
	called   bool
}

func (s *stubTranscoder) Transcode(_ context.Context, _ []byte, channels, sampleRate int) ([]byte, error) {
	s.called = true
	s.channels = channels
	s.rate = sampleRate
	return s.out, s.err
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func writeOriginal(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "original.png")
	if err := os.WriteFile(path, encodePNG(t, width, height), 0o644); err != nil {
		t.Fatalf("write original: %v", err)
	}
	return path
}

func newNormalizer(t *testing.T, transcoder ffmpeg.Transcoder) *normalize.Normalizer {
	t.Helper()
	n, err := normalize.New(transcoder, 1, 16000)
	if err != nil {
		t.Fatalf("normalize.New: %v", err)
	}
	return n
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestDetectMediaType(t *testing.T) {
	cases := []struct {
		declared string
		want     normalize.MediaType
		ok       bool
	}{
		{"image/png", normalize.MediaImage, true},
		{"IMAGE/JPEG", normalize.MediaImage, true},
		{"audio/ogg", normalize.MediaAudio, true},
		{"text/plain", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := normalize.DetectMediaType(tc.declared)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("DetectMediaType(%q) = %v, %v", tc.declared, got, err)
			}
			continue
		}
		if !errors.Is(err, normalize.ErrInvalidSubmission) {
			t.Fatalf("DetectMediaType(%q): expected rejection, got %v", tc.declared, err)
		}
	}
}

func TestImageRoundTripKeepsOriginalSize(t *testing.T) {
	original := writeOriginal(t, 16, 16)
	n := newNormalizer(t, &stubTranscoder{})

	out, err := n.Normalize(context.Background(), normalize.MediaImage, encodePNG(t, 16, 16), original)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if w, h := decodeSize(t, out); w != 16 || h != 16 {
		t.Fatalf("expected 16x16, got %dx%d", w, h)
	}
}

func TestImageRoundsDownToUniformMultiple(t *testing.T) {
	original := writeOriginal(t, 16, 16)
	n := newNormalizer(t, &stubTranscoder{})

	// 48x32 against 16x16: per-axis multiples 3 and 2, uniform multiple 2.
	out, err := n.Normalize(context.Background(), normalize.MediaImage, encodePNG(t, 48, 32), original)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if w, h := decodeSize(t, out); w != 32 || h != 32 {
		t.Fatalf("expected 32x32, got %dx%d", w, h)
	}
}

func TestImageLargerMultiples(t *testing.T) {
	original := writeOriginal(t, 16, 32)
	n := newNormalizer(t, &stubTranscoder{})

	cases := []struct {
		w, h   int
		ew, eh int
	}{
		{64, 128, 64, 128},
		{70, 130, 64, 128},
		{16, 32, 16, 32},
		{33, 65, 32, 64},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%dx%d", tc.w, tc.h), func(t *testing.T) {
			out, err := n.Normalize(context.Background(), normalize.MediaImage, encodePNG(t, tc.w, tc.h), original)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if w, h := decodeSize(t, out); w != tc.ew || h != tc.eh {
				t.Fatalf("expected %dx%d, got %dx%d", tc.ew, tc.eh, w, h)
			}
		})
	}
}

func TestImageSmallerThanOriginalIsRejected(t *testing.T) {
	original := writeOriginal(t, 16, 16)
	n := newNormalizer(t, &stubTranscoder{})

	_, err := n.Normalize(context.Background(), normalize.MediaImage, encodePNG(t, 8, 20), original)
	if !errors.Is(err, normalize.ErrInvalidSubmission) {
		t.Fatalf("expected rejection for undersized image, got %v", err)
	}
}

func TestImageUndecodableIsRejected(t *testing.T) {
	original := writeOriginal(t, 16, 16)
	n := newNormalizer(t, &stubTranscoder{})

	_, err := n.Normalize(context.Background(), normalize.MediaImage, []byte("not a png"), original)
	if !errors.Is(err, normalize.ErrInvalidSubmission) {
		t.Fatalf("expected rejection for garbage image, got %v", err)
	}
}

func TestAudioDelegatesToTranscoder(t *testing.T) {
	stub := &stubTranscoder{out: []byte("OggS")}
	n := newNormalizer(t, stub)

	out, err := n.Normalize(context.Background(), normalize.MediaAudio, []byte("riff"), "")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if string(out) != "OggS" {
		t.Fatalf("unexpected output: %q", out)
	}
	if !stub.called || stub.channels != 1 || stub.rate != 16000 {
		t.Fatalf("transcoder called with channels=%d rate=%d", stub.channels, stub.rate)
	}
}

func TestAudioDecodeFailureIsRejection(t *testing.T) {
	stub := &stubTranscoder{err: fmt.Errorf("%w: bad container", ffmpeg.ErrDecode)}
	n := newNormalizer(t, stub)

	_, err := n.Normalize(context.Background(), normalize.MediaAudio, []byte("junk"), "")
	if !errors.Is(err, normalize.ErrInvalidSubmission) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestAudioInternalFailurePropagates(t *testing.T) {
	stub := &stubTranscoder{err: errors.New("ffmpeg not installed")}
	n := newNormalizer(t, stub)

	_, err := n.Normalize(context.Background(), normalize.MediaAudio, []byte("riff"), "")
	if err == nil || errors.Is(err, normalize.ErrInvalidSubmission) {
		t.Fatalf("expected internal error, got %v", err)
	}
}
