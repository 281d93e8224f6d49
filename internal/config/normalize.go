package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("CRQA_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.Match = strings.ToLower(strings.TrimSpace(c.Analysis.Match))
	if c.Analysis.Match == "" {
		c.Analysis.Match = defaultMatch
	}
	c.Analysis.Norm = strings.ToLower(strings.TrimSpace(c.Analysis.Norm))
	if c.Analysis.Norm == "" {
		c.Analysis.Norm = defaultNorm
	}
	c.Analysis.LAMDirection = strings.ToLower(strings.TrimSpace(c.Analysis.LAMDirection))
	if c.Analysis.LAMDirection == "" {
		c.Analysis.LAMDirection = defaultLAMDirection
	}
}

func (c *Config) normalizeReport() {
	c.Report.NAString = strings.TrimSpace(c.Report.NAString)
	if c.Report.NAString == "" {
		c.Report.NAString = defaultNAString
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("CRQA_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
