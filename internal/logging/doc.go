// Package logging builds the slog loggers used across the daemon and CLI.
//
// Two output formats are supported: a console handler that renders a compact
// timestamp/level/component prefix with key=value attributes, and a JSON
// handler for machine consumption. Output can fan out to stdout and a log file
// under the configured log directory.
package logging
