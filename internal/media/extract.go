// Package media wraps the external audio-extraction tool behind a narrow
// capability interface so the ingestion pipeline depends on a contract, not
// a command line.
package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Extractor produces a transcription-ready audio artifact from a stored
// video file.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, audioPath string) error
}

// CommandRunner abstracts subprocess execution for testing.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// FFmpeg extracts mono 16kHz WAV audio using the ffmpeg binary.
type FFmpeg struct {
	binary string
	runner CommandRunner
}

// NewFFmpeg constructs an extractor around the given ffmpeg binary name.
func NewFFmpeg(binary string) *FFmpeg {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (f *FFmpeg) WithCommandRunner(runner CommandRunner) {
	f.runner = runner
}

// ExtractAudio writes the video's audio stream to audioPath as mono 16kHz
// PCM WAV, the input format the transcription engine expects.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		audioPath,
	}
	if f.runner != nil {
		return f.runner(ctx, f.binary, args...)
	}
	cmd := exec.CommandContext(ctx, f.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
