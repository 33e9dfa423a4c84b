package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	StorageRoot string `toml:"storage_root"`
	LogDir      string `toml:"log_dir"`
	APIBind     string `toml:"api_bind"`
}

// Auth contains API token configuration. An empty token list accepts any
// non-empty token, matching the behavior of the recorder frontend which only
// requires that a token be present.
type Auth struct {
	Tokens []string `toml:"tokens"`
}

// Upload contains limits and media-type acceptance rules for answer uploads.
type Upload struct {
	MaxMB                int      `toml:"max_mb"`
	AllowedMIMETypes     []string `toml:"allowed_mime_types"`
	RecognizedExtensions []string `toml:"recognized_extensions"`
}

// Interview contains the session-level interview settings.
type Interview struct {
	// Timezone is the IANA zone used for every timestamp in a session.
	Timezone string `toml:"timezone"`
	// MaxQuestions bounds the valid question index range (1..MaxQuestions).
	MaxQuestions int `toml:"max_questions"`
	// QuestionsFile optionally points at a YAML file listing the prompts.
	QuestionsFile string `toml:"questions_file"`
	// TranscriptPreviewChars bounds the transcript excerpt stored in meta.json.
	TranscriptPreviewChars int `toml:"transcript_preview_chars"`
}

// STT contains external speech-to-text tool settings.
type STT struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	WhisperBinary  string `toml:"whisper_binary"`
	WhisperModel   string `toml:"whisper_model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for greenroom.
//
// Configuration sections by subsystem:
//   - Paths: storage root, log directory, API bind address
//   - Auth: accepted API tokens
//   - Upload: size ceiling and media-type acceptance
//   - Interview: timezone, question range, prompts file, preview length
//   - STT: ffmpeg/whisper binaries and transcription timeout
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Auth      Auth      `toml:"auth"`
	Upload    Upload    `toml:"upload"`
	Interview Interview `toml:"interview"`
	STT       STT       `toml:"stt"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/greenroom/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized, with GREENROOM_*
// environment overrides applied on top of the file values.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("greenroom.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StorageRoot, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Location resolves the configured interview timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Interview.Timezone)
}

// TranscriptionTimeout returns the configured bound for one transcription call.
func (c *Config) TranscriptionTimeout() time.Duration {
	return time.Duration(c.STT.TimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxMB) << 20
}

// MIMEAllowed reports whether the declared media type is in the allow-list.
func (c *Config) MIMEAllowed(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, allowed := range c.Upload.AllowedMIMETypes {
		if mime == allowed {
			return true
		}
	}
	return false
}

// ExtensionRecognized reports whether the file-name extension is in the
// recognized fallback set.
func (c *Config) ExtensionRecognized(ext string) bool {
	ext = strings.ToLower(strings.TrimSpace(ext))
	for _, known := range c.Upload.RecognizedExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
