package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnvOverrides()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAuth()
	c.normalizeUpload()
	if err := c.normalizeInterview(); err != nil {
		return err
	}
	c.normalizeSTT()
	c.normalizeLogging()
	return nil
}

// applyEnvOverrides lets the environment take precedence over file values,
// since deployments of the recorder are often configured entirely via .env.
func (c *Config) applyEnvOverrides() {
	if value, ok := lookupEnv("GREENROOM_STORAGE_ROOT"); ok {
		c.Paths.StorageRoot = value
	}
	if value, ok := lookupEnv("GREENROOM_LOG_DIR"); ok {
		c.Paths.LogDir = value
	}
	if value, ok := lookupEnv("GREENROOM_API_BIND"); ok {
		c.Paths.APIBind = value
	}
	if value, ok := lookupEnv("GREENROOM_API_TOKENS"); ok {
		c.Auth.Tokens = splitList(value)
	}
	if value, ok := lookupEnv("GREENROOM_TIMEZONE"); ok {
		c.Interview.Timezone = value
	}
	if value, ok := lookupEnv("GREENROOM_MAX_MB"); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			c.Upload.MaxMB = parsed
		}
	}
	if value, ok := lookupEnv("GREENROOM_MAX_QUESTIONS"); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			c.Interview.MaxQuestions = parsed
		}
	}
	if value, ok := lookupEnv("GREENROOM_QUESTIONS_FILE"); ok {
		c.Interview.QuestionsFile = value
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StorageRoot) == "" {
		c.Paths.StorageRoot = defaultStorageRoot
	}
	if c.Paths.StorageRoot, err = expandPath(c.Paths.StorageRoot); err != nil {
		return fmt.Errorf("paths.storage_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeAuth() {
	tokens := make([]string, 0, len(c.Auth.Tokens))
	for _, token := range c.Auth.Tokens {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	c.Auth.Tokens = tokens
}

func (c *Config) normalizeUpload() {
	mimes := make([]string, 0, len(c.Upload.AllowedMIMETypes))
	for _, mime := range c.Upload.AllowedMIMETypes {
		if trimmed := strings.ToLower(strings.TrimSpace(mime)); trimmed != "" {
			mimes = append(mimes, trimmed)
		}
	}
	c.Upload.AllowedMIMETypes = mimes

	exts := make([]string, 0, len(c.Upload.RecognizedExtensions))
	for _, ext := range c.Upload.RecognizedExtensions {
		trimmed := strings.ToLower(strings.TrimSpace(ext))
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		exts = append(exts, trimmed)
	}
	c.Upload.RecognizedExtensions = exts
}

func (c *Config) normalizeInterview() error {
	c.Interview.Timezone = strings.TrimSpace(c.Interview.Timezone)
	if c.Interview.Timezone == "" {
		c.Interview.Timezone = defaultTimezone
	}
	if c.Interview.TranscriptPreviewChars <= 0 {
		c.Interview.TranscriptPreviewChars = defaultTranscriptPreviewChars
	}
	if strings.TrimSpace(c.Interview.QuestionsFile) != "" {
		expanded, err := expandPath(c.Interview.QuestionsFile)
		if err != nil {
			return fmt.Errorf("interview.questions_file: %w", err)
		}
		c.Interview.QuestionsFile = expanded
	}
	return nil
}

func (c *Config) normalizeSTT() {
	c.STT.FFmpegBinary = strings.TrimSpace(c.STT.FFmpegBinary)
	if c.STT.FFmpegBinary == "" {
		c.STT.FFmpegBinary = defaultFFmpegBinary
	}
	c.STT.WhisperBinary = strings.TrimSpace(c.STT.WhisperBinary)
	if c.STT.WhisperBinary == "" {
		c.STT.WhisperBinary = defaultWhisperBinary
	}
	c.STT.WhisperModel = strings.TrimSpace(c.STT.WhisperModel)
	if c.STT.WhisperModel == "" {
		c.STT.WhisperModel = defaultWhisperModel
	}
	c.STT.Language = strings.TrimSpace(c.STT.Language)
	if c.STT.TimeoutSeconds <= 0 {
		c.STT.TimeoutSeconds = defaultSTTTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
