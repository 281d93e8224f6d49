// Package main hosts the crqa CLI entrypoint and command graph.
//
// The Cobra-based command tree loads dyad CSV files, runs categorical
// cross-recurrence analyses through the pipeline package, and inspects or
// exports the runs kept in the results store. It centralizes configuration
// resolution and logger setup so subcommands only deal with presentation.
//
// Keep this package lean: new analysis features belong in the internal
// packages first and are surfaced here as commands or flags.
package main
