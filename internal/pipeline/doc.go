// Package pipeline runs a complete analysis: it serializes writers of the data
// directory with a file lock, runs preflight checks, loads the dyad CSV,
// analyzes every dyad through the batch package, and records the outcomes in
// the results store.
//
// Watch re-runs an analysis whenever the input file changes on disk.
package pipeline
