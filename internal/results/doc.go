// Package results persists analysis runs and their per-dyad metrics in SQLite.
//
// A run records the input file, the hyperparameters, and a status; each dyad
// of the run gets one row holding every metric, with undefined metrics stored
// as NULL so "not computable" never collapses into zero at rest. Dyads that
// failed validation keep their error message instead of metrics.
//
// Schema changes bump schemaVersion in schema.go. Opening a database with a
// different version, missing result tables, or one that crqa never created
// fails with a *SchemaError, which matches ErrSchemaMismatch.
package results
