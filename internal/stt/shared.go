package stt

import (
	"context"
	"sync"
)

// Shared wraps an engine factory with process-wide init-once semantics. The
// factory runs on first use only; concurrent first callers block until the
// single initialization completes and then share the result. Construction
// failures are sticky and returned to every subsequent caller.
type Shared struct {
	build func() (TranscriptionEngine, error)

	once   sync.Once
	engine TranscriptionEngine
	err    error
}

// NewShared creates a lazily-initialized shared engine.
func NewShared(build func() (TranscriptionEngine, error)) *Shared {
	return &Shared{build: build}
}

// Transcribe initializes the underlying engine if needed and delegates.
func (s *Shared) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.once.Do(func() {
		s.engine, s.err = s.build()
	})
	if s.err != nil {
		return "", s.err
	}
	return s.engine.Transcribe(ctx, audioPath)
}
