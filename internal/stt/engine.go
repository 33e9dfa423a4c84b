// Package stt provides the speech-to-text capability used by the ingestion
// pipeline.
//
// TranscriptionEngine is the narrow contract the pipeline depends on. The
// production implementation shells out to a whisper CLI; tests substitute a
// fake. Because a real engine is expensive to construct, Shared wraps any
// engine factory with init-once semantics so a single instance serves every
// request in the process.
package stt

import "context"

// TranscriptionEngine converts an audio artifact into plain text.
type TranscriptionEngine interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// EngineFunc adapts a function to the TranscriptionEngine interface.
type EngineFunc func(ctx context.Context, audioPath string) (string, error)

func (f EngineFunc) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return f(ctx, audioPath)
}
