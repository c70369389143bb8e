package logging

import (
	"log/slog"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSON(t *testing.T) {
	logger, err := New(Options{Format: "json", Level: "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("debug level not enabled")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if parseLevel("verbose") != slog.LevelInfo {
		t.Fatal("unknown level should map to info")
	}
	if parseLevel("WARN") != slog.LevelWarn {
		t.Fatal("level parsing should be case-insensitive")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("nop logger should disable all levels")
	}
	logger.Error("must not panic")
}
