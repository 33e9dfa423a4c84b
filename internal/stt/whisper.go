package stt

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// WhisperConfig captures runtime settings for the whisper CLI.
type WhisperConfig struct {
	// Binary is the whisper executable name or path.
	Binary string
	// Model selects the whisper model (e.g. "small").
	Model string
	// Language optionally pins the spoken language; empty means auto-detect.
	Language string
}

// CommandRunner abstracts subprocess execution for testing. The runner is
// expected to leave the transcript text file in the output directory the
// same way the real CLI does.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// WhisperCLI invokes the whisper command line tool and reads the text file
// it produces.
type WhisperCLI struct {
	cfg    WhisperConfig
	runner CommandRunner
}

// NewWhisperCLI constructs an engine around the configured whisper binary.
func NewWhisperCLI(cfg WhisperConfig) *WhisperCLI {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "whisper"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "small"
	}
	return &WhisperCLI{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (w *WhisperCLI) WithCommandRunner(runner CommandRunner) {
	w.runner = runner
}

// Model returns the configured model name for logging.
func (w *WhisperCLI) Model() string {
	return w.cfg.Model
}

// Transcribe runs the CLI against audioPath and returns the produced text.
// Output lands in a private temp directory that is removed afterwards, so
// repeated runs never collide.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	outDir, err := os.MkdirTemp("", "greenroom-stt-*")
	if err != nil {
		return "", fmt.Errorf("create transcription output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		audioPath,
		"--model", w.cfg.Model,
		"--output_format", "txt",
		"--output_dir", outDir,
	}
	if w.cfg.Language != "" {
		args = append(args, "--language", w.cfg.Language)
	}

	if err := w.run(ctx, w.cfg.Binary, args...); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	text, err := os.ReadFile(filepath.Join(outDir, base+".txt"))
	if err != nil {
		return "", fmt.Errorf("read transcription result: %w", err)
	}
	return strings.TrimSpace(string(text)), nil
}

func (w *WhisperCLI) run(ctx context.Context, name string, args ...string) error {
	if w.runner != nil {
		return w.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("whisper transcribe: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
