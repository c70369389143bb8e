package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	ServiceDir    string `toml:"service_dir"`
	OutputTable   string `toml:"output_table"`
	DataTablesDir string `toml:"data_tables_dir"`
	SiteTable     string `toml:"site_table"`
	LogDir        string `toml:"log_dir"`
}

// Events contains the temporal segmentation parameters.
type Events struct {
	IndepEventIntervalMinutes  int     `toml:"indep_event_interval_minutes"`
	LowConfidenceProbThreshold float64 `toml:"low_confidence_prob_threshold"`
}

// Table contains behaviour toggles for table construction.
type Table struct {
	// DropUnparseable discards rows whose timestamp cannot be parsed
	// instead of carrying them with event 0.
	DropUnparseable bool `toml:"drop_unparseable"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mewc-table.
//
// Configuration sections by subsystem:
//   - Paths: service directory, output table base path, merge inputs
//   - Events: independence interval and low-confidence threshold
//   - Table: row handling toggles
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Events  Events  `toml:"events"`
	Table   Table   `toml:"table"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mewc-table/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mewc-table.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EventInterval returns the independence interval as a duration.
func (c *Config) EventInterval() time.Duration {
	return time.Duration(c.Events.IndepEventIntervalMinutes) * time.Minute
}

// OutputCSVPath returns the CSV form of the output table.
func (c *Config) OutputCSVPath() string {
	return c.Paths.OutputTable + ".csv"
}

// OutputDBPath returns the SQLite form of the output table.
func (c *Config) OutputDBPath() string {
	return c.Paths.OutputTable + ".db"
}

// LockPath returns the lock file guarding the output table.
func (c *Config) LockPath() string {
	return c.Paths.OutputTable + ".lock"
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.OutputTable), c.Paths.LogDir}
	if strings.TrimSpace(c.Paths.DataTablesDir) != "" {
		dirs = append(dirs, c.Paths.DataTablesDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes tilde and relative path expansion for CLI arguments.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
