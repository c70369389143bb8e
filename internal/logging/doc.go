// Package logging assembles the structured slog loggers used across the
// curation pipeline.
//
// Runs are batch and short-lived, so the setup is deliberately small:
// console output for interactive terminals, JSON when piped or when
// configured, and a no-op logger for tests and wiring code that cannot
// fail. Stage code receives loggers explicitly; nothing reads global state.
package logging
