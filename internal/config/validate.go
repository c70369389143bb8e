package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ServiceDir == "" {
		return errors.New("paths.service_dir must be set")
	}
	if c.Paths.OutputTable == "" {
		return errors.New("paths.output_table must be set")
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.IndepEventIntervalMinutes <= 0 {
		return fmt.Errorf("events.indep_event_interval_minutes must be positive, got %d",
			c.Events.IndepEventIntervalMinutes)
	}
	if c.Events.LowConfidenceProbThreshold < 0 || c.Events.LowConfidenceProbThreshold > 1 {
		return fmt.Errorf("events.low_confidence_prob_threshold must be between 0 and 1, got %v",
			c.Events.LowConfidenceProbThreshold)
	}
	return nil
}
