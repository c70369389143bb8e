package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/BWBrook/mewc-table/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ServiceDir = filepath.Join(base, "service")
	cfg.Paths.OutputTable = filepath.Join(base, "table", "mewc_species_table")
	cfg.Paths.DataTablesDir = filepath.Join(base, "data_tables")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithInterval overrides the independence interval in minutes.
func WithInterval(minutes int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Events.IndepEventIntervalMinutes = minutes
	}
}

// WithProbThreshold overrides the low-confidence threshold.
func WithProbThreshold(threshold float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Events.LowConfidenceProbThreshold = threshold
	}
}
