// Package logging builds the slog loggers used by the mintkeeper CLI and
// daemon.
//
// It parses level and format settings from configuration, fans output out to
// stdout/stderr and optional log files, and supplies Attr helpers plus shared
// field-name constants so log records stay consistent across packages.
//
// Construct loggers through New or NewFromConfig; use NewNop in tests that do
// not assert on log output.
package logging
