// Package logging assembles structured slog loggers and formatting helpers used
// across crqa commands.
//
// It owns the configurable console/JSON handlers, mirrors records into a JSON
// log file, and exposes context-aware helpers so pipeline code can tag log
// lines with run and dyad IDs. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
