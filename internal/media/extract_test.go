package media

import (
	"context"
	"errors"
	"testing"
)

func TestExtractAudioBuildsMono16kArgs(t *testing.T) {
	extractor := NewFFmpeg("ffmpeg-test")

	var gotName string
	var gotArgs []string
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	if err := extractor.ExtractAudio(context.Background(), "/in/Q1.webm", "/out/Q1.wav"); err != nil {
		t.Fatal(err)
	}
	if gotName != "ffmpeg-test" {
		t.Fatalf("unexpected binary: %q", gotName)
	}

	joined := map[string]bool{}
	for i, arg := range gotArgs {
		joined[arg] = true
		if arg == "-ar" && gotArgs[i+1] != "16000" {
			t.Fatalf("expected 16kHz sample rate, got %q", gotArgs[i+1])
		}
		if arg == "-ac" && gotArgs[i+1] != "1" {
			t.Fatalf("expected mono output, got %q", gotArgs[i+1])
		}
	}
	if !joined["-vn"] {
		t.Fatal("expected video stream to be dropped")
	}
	if gotArgs[len(gotArgs)-1] != "/out/Q1.wav" {
		t.Fatalf("expected destination as final arg, got %q", gotArgs[len(gotArgs)-1])
	}
}

func TestExtractAudioPropagatesFailure(t *testing.T) {
	extractor := NewFFmpeg("")
	wantErr := errors.New("no audio stream")
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return wantErr
	})

	err := extractor.ExtractAudio(context.Background(), "in", "out")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected runner error, got %v", err)
	}
}
