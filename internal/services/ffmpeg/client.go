// Package ffmpeg wraps the ffmpeg command line for the optional MP3
// export of extracted capture audio.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var commandContext = exec.CommandContext

// Client defines audio transcoding behaviour.
type Client interface {
	TranscodeToMP3(ctx context.Context, wavPath string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line transcoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// TranscodeToMP3 converts a WAV file to an MP3 next to it and returns the
// MP3 path. The source WAV is left in place.
func (c *CLI) TranscodeToMP3(ctx context.Context, wavPath string) (string, error) {
	if strings.TrimSpace(wavPath) == "" {
		return "", errors.New("wav path required")
	}

	outputPath := strings.TrimSuffix(wavPath, filepath.Ext(wavPath)) + ".mp3"
	args := []string{"-y", "-nostdin", "-loglevel", "error", "-i", wavPath, "-codec:a", "libmp3lame", "-qscale:a", "2", outputPath}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := firstLine(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("ffmpeg transcode failed: %s: %w", detail, err)
		}
		return "", fmt.Errorf("ffmpeg transcode failed: %w", err)
	}
	return outputPath, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return strings.TrimSpace(s)
}
