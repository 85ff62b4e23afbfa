package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrDecode marks transcode failures caused by undecodable input rather than
// a missing or broken ffmpeg installation.
var ErrDecode = errors.New("audio decode failed")

// Transcoder defines the behaviour the normalizer needs from this client.
type Transcoder interface {
	Transcode(ctx context.Context, input []byte, channels, sampleRate int) ([]byte, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stdin []byte) (stdout []byte, stderr string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(c *Client) {
		if executor != nil {
			c.exec = executor
		}
	}
}

// Client wraps ffmpeg CLI interactions over stdin/stdout pipes so transcodes
// stay in memory end to end.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs an ffmpeg client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcode decodes the input container, downmixes to the requested channel
// count, resamples, and re-encodes as Ogg Vorbis.
func (c *Client) Transcode(ctx context.Context, input []byte, channels, sampleRate int) ([]byte, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vn",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "libvorbis",
		"-f", "ogg",
		"pipe:1",
	}

	stdout, stderr, err := c.exec.Run(runCtx, c.binary, args, input)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", ErrDecode, tail(stderr))
		}
		return nil, fmt.Errorf("run %s: %w", c.binary, err)
	}
	if len(stdout) == 0 {
		return nil, fmt.Errorf("%w: ffmpeg produced no output", ErrDecode)
	}
	return stdout, nil
}

func tail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return "unknown decode error"
	}
	lines := strings.Split(stderr, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stdin []byte) ([]byte, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.String(), err
}
