package testsupport

import (
	"path/filepath"
	"testing"

	"greenroom/internal/config"
	"greenroom/internal/logging"
	"greenroom/internal/session"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorageRoot = filepath.Join(base, "uploads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Interview.Timezone = "UTC"
	cfg.STT.TimeoutSeconds = 5

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithMaxMB overrides the upload size ceiling on the test config.
func WithMaxMB(mb int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Upload.MaxMB = mb
	}
}

// WithMaxQuestions overrides the valid question range on the test config.
func WithMaxQuestions(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Interview.MaxQuestions = n
	}
}

// WithTokens sets the accepted API tokens on the test config.
func WithTokens(tokens ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Auth.Tokens = tokens
	}
}

// NewStore opens a session store over the test config's storage root.
func NewStore(t testing.TB, cfg *config.Config) *session.Store {
	t.Helper()

	store, err := session.NewStore(cfg.Paths.StorageRoot, cfg.Interview.Timezone, logging.NewNop())
	if err != nil {
		t.Fatalf("open session store: %v", err)
	}
	return store
}
