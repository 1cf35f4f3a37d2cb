// Package logging assembles structured slog loggers used across the cardbox
// engine and its capture channels.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes context-aware helpers so channel code can
// automatically tag log lines with capture session IDs and channel names.
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape as the rest of the system.
package logging
