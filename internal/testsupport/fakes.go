package testsupport

import (
	"context"
	"os"
)

// ExtractorFunc adapts a function to the media.Extractor contract.
type ExtractorFunc func(ctx context.Context, videoPath, audioPath string) error

func (f ExtractorFunc) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	return f(ctx, videoPath, audioPath)
}

// StubExtractor returns an extractor that writes a placeholder audio file,
// mimicking a successful ffmpeg run.
func StubExtractor() ExtractorFunc {
	return func(ctx context.Context, videoPath, audioPath string) error {
		return os.WriteFile(audioPath, []byte("RIFF"), 0o644)
	}
}

// FailingExtractor returns an extractor that always fails with err.
func FailingExtractor(err error) ExtractorFunc {
	return func(ctx context.Context, videoPath, audioPath string) error {
		return err
	}
}
