// Package config loads, normalizes, and validates crqa configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CRQA_DATA_DIR and
// CRQA_LOG_LEVEL environment overrides. The Config type centralizes the
// analysis hyperparameters together with storage and reporting settings so a
// run is described in one place.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
