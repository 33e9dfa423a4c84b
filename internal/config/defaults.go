package config

const (
	defaultStorageRoot            = "~/.local/share/greenroom/uploads"
	defaultLogDir                 = "~/.local/share/greenroom/logs"
	defaultAPIBind                = "127.0.0.1:8520"
	defaultMaxMB                  = 100
	defaultTimezone               = "Local"
	defaultMaxQuestions           = 5
	defaultTranscriptPreviewChars = 200
	defaultFFmpegBinary           = "ffmpeg"
	defaultWhisperBinary          = "whisper"
	defaultWhisperModel           = "small"
	defaultSTTTimeoutSeconds      = 300
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

func defaultAllowedMIMETypes() []string {
	return []string{
		"video/webm",
		"video/mp4",
		"video/mpeg",
		"video/x-matroska",
		"application/octet-stream",
	}
}

func defaultRecognizedExtensions() []string {
	return []string{".webm", ".mp4", ".mkv"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageRoot: defaultStorageRoot,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Upload: Upload{
			MaxMB:                defaultMaxMB,
			AllowedMIMETypes:     defaultAllowedMIMETypes(),
			RecognizedExtensions: defaultRecognizedExtensions(),
		},
		Interview: Interview{
			Timezone:               defaultTimezone,
			MaxQuestions:           defaultMaxQuestions,
			TranscriptPreviewChars: defaultTranscriptPreviewChars,
		},
		STT: STT{
			FFmpegBinary:   defaultFFmpegBinary,
			WhisperBinary:  defaultWhisperBinary,
			WhisperModel:   defaultWhisperModel,
			TimeoutSeconds: defaultSTTTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
