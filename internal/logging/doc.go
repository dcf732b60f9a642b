// Package logging assembles structured slog loggers and formatting helpers used
// across murmur.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes field-key constants so the batch driver, file
// processor, and transcription backends tag log lines with the same run and
// source identifiers. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
