// Package logging constructs the slog loggers used across greenroom.
//
// It centralizes level parsing, output fan-out (stdout/stderr/log files), and
// the console/json format switch, and provides attribute helpers plus
// component-scoped child loggers so log fields stay consistent between the
// daemon, the pipeline, and the CLI.
package logging
