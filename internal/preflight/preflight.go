package preflight

import (
	"context"

	"crqa/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail" yaml:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// The input check runs only when inputPath is non-empty.
func RunAll(ctx context.Context, cfg *config.Config, inputPath string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if inputPath != "" {
		results = append(results, CheckInputFile(inputPath))
	}
	results = append(results, CheckStore(ctx, cfg))
	results = append(results, CheckLock(cfg))
	return results
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
