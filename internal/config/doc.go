// Package config loads, normalizes, and validates greenroom configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours GREENROOM_* environment
// overrides so the service can also be configured entirely from the
// environment. The Config type centralizes every knob the daemon and CLI
// need: storage layout, upload limits, the interview question range, STT
// tool settings, API bind/tokens, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical formats, and clear validation errors.
package config
