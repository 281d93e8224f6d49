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
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must be >= 0 (0 uses one worker per CPU)")
	}
	if c.Report.Precision < 0 || c.Report.Precision > 15 {
		return errors.New("report.precision must be between 0 and 15")
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.ProfileMaxLag < 0 {
		return errors.New("analysis.profile_max_lag must be >= 0")
	}
	if _, err := c.RecurrenceParams(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
