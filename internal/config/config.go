package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"crqa/internal/recurrence"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Analysis contains the recurrence hyperparameters applied to every dyad in a run.
type Analysis struct {
	Radius        float64 `toml:"radius"`
	Delay         int     `toml:"delay"`
	Embed         int     `toml:"embed"`
	MinDiagLine   int     `toml:"min_diag_line"`
	MinVertLine   int     `toml:"min_vert_line"`
	TheilerWindow int     `toml:"theiler_window"`
	// Match is "categorical" (exact equality, radius ignored) or "distance".
	Match string `toml:"match"`
	// Norm is "euclidean" or "max"; only used by distance matching.
	Norm string `toml:"norm"`
	// LAMDirection is "vertical", "horizontal", or "both".
	LAMDirection  string `toml:"lam_direction"`
	ProfileMaxLag int    `toml:"profile_max_lag"`
}

// Batch contains configuration for parallel dyad analysis.
type Batch struct {
	Workers int `toml:"workers"` // 0 means one worker per CPU
}

// Report contains configuration for exported tables.
type Report struct {
	CoalesceNA bool   `toml:"coalesce_na"`
	NAString   string `toml:"na_string"`
	Precision  int    `toml:"precision"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for crqa.
//
// Configuration sections by subsystem:
//   - Paths: results database and log locations
//   - Analysis: recurrence hyperparameters
//   - Batch: worker count
//   - Report: NA handling and numeric precision for exports
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Analysis Analysis `toml:"analysis"`
	Batch    Batch    `toml:"batch"`
	Report   Report   `toml:"report"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
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
		decoder.DisallowUnknownFields()
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

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("crqa.toml")
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

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite results database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "results.db")
}

// LockPath returns the file used to serialize writers of the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "crqa.lock")
}

// LogFilePath returns the file log output is mirrored to.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "crqa.log")
}

// RecurrenceParams converts the analysis section into engine parameters.
func (c *Config) RecurrenceParams() (recurrence.Params, error) {
	match, err := recurrence.ParseMatchRule(c.Analysis.Match)
	if err != nil {
		return recurrence.Params{}, fmt.Errorf("analysis.match: %w", err)
	}
	norm, err := recurrence.ParseNorm(c.Analysis.Norm)
	if err != nil {
		return recurrence.Params{}, fmt.Errorf("analysis.norm: %w", err)
	}
	direction, err := recurrence.ParseLineDirection(c.Analysis.LAMDirection)
	if err != nil {
		return recurrence.Params{}, fmt.Errorf("analysis.lam_direction: %w", err)
	}
	params := recurrence.Params{
		Radius:        c.Analysis.Radius,
		Delay:         c.Analysis.Delay,
		Embed:         c.Analysis.Embed,
		MinDiagLine:   c.Analysis.MinDiagLine,
		MinVertLine:   c.Analysis.MinVertLine,
		TheilerWindow: c.Analysis.TheilerWindow,
		Match:         match,
		Norm:          norm,
		Direction:     direction,
	}
	if err := params.Validate(); err != nil {
		return recurrence.Params{}, fmt.Errorf("analysis: %w", err)
	}
	return params, nil
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

// ExpandPath exposes the repository path expansion rules for other packages.
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
