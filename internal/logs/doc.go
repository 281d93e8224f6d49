// Package logs reads the JSON log file written by the logging package.
//
// Tail returns the last matching records with bounded memory and an offset,
// so callers can keep following the file from where they stopped. Filters
// select one run, one dyad, or a minimum level, which lets `crqa logs --run`
// show the history of a stored analysis without grepping.
package logs
