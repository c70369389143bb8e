// Package config loads, normalizes, and validates mewc-table configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the CLI needs:
// the service directory layout, the output table base path, and the event
// segmentation parameters. Stage functions never read configuration
// themselves; the interval and probability threshold are passed in
// explicitly by the pipeline drivers.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
