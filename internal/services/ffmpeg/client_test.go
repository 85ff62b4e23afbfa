package ffmpeg_test

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"packsmith/internal/services/ffmpeg"
)

type stubExecutor struct {
	binary string
	args   []string
	stdin  []byte

	stdout []byte
	stderr string
	err    error
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, stdin []byte) ([]byte, string, error) {
	s.binary = binary
	s.args = args
	s.stdin = stdin
	return s.stdout, s.stderr, s.err
}

func TestTranscodeBuildsExpectedArgs(t *testing.T) {
	stub := &stubExecutor{stdout: []byte("OggS...")}
	client, err := ffmpeg.New("ffmpeg", 30, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := client.Transcode(context.Background(), []byte("input"), 1, 16000)
	if err != nil {
		t.Fatalf("Transcode failed: %v", err)
	}
	if string(out) != "OggS..." {
		t.Fatalf("unexpected output: %q", out)
	}
	if stub.binary != "ffmpeg" {
		t.Fatalf("unexpected binary: %q", stub.binary)
	}
	if string(stub.stdin) != "input" {
		t.Fatalf("stdin not forwarded: %q", stub.stdin)
	}

	joined := strings.Join(stub.args, " ")
	for _, want := range []string{"-i pipe:0", "-ac 1", "-ar 16000", "-c:a libvorbis", "-f ogg pipe:1"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %v", want, stub.args)
		}
	}
}

func TestTranscodeClassifiesExitFailures(t *testing.T) {
	stub := &stubExecutor{stderr: "pipe:0: Invalid data found when processing input", err: &exec.ExitError{}}
	client, err := ffmpeg.New("ffmpeg", 30, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Transcode(context.Background(), []byte("garbage"), 1, 16000)
	if !errors.Is(err, ffmpeg.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("expected stderr detail, got %v", err)
	}
}

func TestTranscodeLaunchFailureIsNotDecodeError(t *testing.T) {
	stub := &stubExecutor{err: exec.ErrNotFound}
	client, err := ffmpeg.New("ffmpeg", 30, ffmpeg.WithExecutor(stub))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.Transcode(context.Background(), []byte("data"), 1, 16000)
	if err == nil || errors.Is(err, ffmpeg.ErrDecode) {
		t.Fatalf("expected non-decode error, got %v", err)
	}
}

func TestTranscodeRejectsEmptyInput(t *testing.T) {
	client, err := ffmpeg.New("ffmpeg", 30, ffmpeg.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := client.Transcode(context.Background(), nil, 1, 16000); !errors.Is(err, ffmpeg.ErrDecode) {
		t.Fatalf("expected ErrDecode for empty input, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ffmpeg.New("  ", 30); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
