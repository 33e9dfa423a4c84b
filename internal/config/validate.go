package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if err := c.validateInterview(); err != nil {
		return err
	}
	if err := c.validateSTT(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StorageRoot == "" {
		return errors.New("paths.storage_root must be set")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateUpload() error {
	if c.Upload.MaxMB <= 0 {
		return errors.New("upload.max_mb must be greater than 0")
	}
	if len(c.Upload.AllowedMIMETypes) == 0 && len(c.Upload.RecognizedExtensions) == 0 {
		return errors.New("upload must accept at least one media type or extension")
	}
	return nil
}

func (c *Config) validateInterview() error {
	if c.Interview.MaxQuestions <= 0 {
		return errors.New("interview.max_questions must be greater than 0")
	}
	if _, err := time.LoadLocation(c.Interview.Timezone); err != nil {
		return fmt.Errorf("interview.timezone %q is not a valid IANA zone: %w", c.Interview.Timezone, err)
	}
	return nil
}

func (c *Config) validateSTT() error {
	if c.STT.TimeoutSeconds <= 0 {
		return errors.New("stt.timeout_seconds must be greater than 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
