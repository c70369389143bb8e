package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEvents()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ServiceDir, err = expandPath(c.Paths.ServiceDir); err != nil {
		return fmt.Errorf("paths.service_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputTable) == "" {
		c.Paths.OutputTable = defaultOutputTable
	}
	if c.Paths.OutputTable, err = expandPath(c.Paths.OutputTable); err != nil {
		return fmt.Errorf("paths.output_table: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataTablesDir) == "" {
		c.Paths.DataTablesDir = defaultDataTablesDir
	}
	if c.Paths.DataTablesDir, err = expandPath(c.Paths.DataTablesDir); err != nil {
		return fmt.Errorf("paths.data_tables_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SiteTable) != "" {
		if c.Paths.SiteTable, err = expandPath(c.Paths.SiteTable); err != nil {
			return fmt.Errorf("paths.site_table: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEvents() {
	if c.Events.IndepEventIntervalMinutes <= 0 {
		c.Events.IndepEventIntervalMinutes = defaultIndepEventIntervalMinutes
	}
	if c.Events.LowConfidenceProbThreshold == 0 {
		c.Events.LowConfidenceProbThreshold = defaultLowConfidenceProbThreshold
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = "auto"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
