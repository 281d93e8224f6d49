package results

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is recorded in schema_version when a results database is
// created. Bump it whenever schema.sql changes.
const schemaVersion = 1

// requiredTables must exist in every results database this build opens.
var requiredTables = []string{"runs", "dyad_results"}

// ErrSchemaMismatch matches any *SchemaError.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SchemaError describes a database file that this build cannot use: a
// different schema version, missing result tables, or a file that was never
// a results database.
type SchemaError struct {
	Path    string
	Found   int
	Missing []string
	Foreign bool
}

func (e *SchemaError) Error() string {
	switch {
	case e.Foreign:
		return fmt.Sprintf("%s: %s is not a crqa results database", ErrSchemaMismatch, e.Path)
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: results database %s lacks tables %s", ErrSchemaMismatch, e.Path, strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("%s: results database %s has version %d, this build reads version %d",
			ErrSchemaMismatch, e.Path, e.Found, schemaVersion)
	}
}

// Is lets errors.Is(err, ErrSchemaMismatch) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// initSchema creates the tables in an empty file and otherwise checks that the
// recorded version and the result tables are what this build expects.
func (s *Store) initSchema(ctx context.Context) error {
	tables, err := s.tableNames(ctx)
	if err != nil {
		return err
	}
	if !tables["schema_version"] {
		if len(tables) > 0 {
			return &SchemaError{Path: s.path, Foreign: true}
		}
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return &SchemaError{Path: s.path, Found: version}
	}
	var missing []string
	for _, name := range requiredTables {
		if !tables[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Path: s.path, Found: version, Missing: missing}
	}
	return nil
}

func (s *Store) tableNames(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		tables[name] = true
	}
	return tables, rows.Err()
}

// createSchema applies schema.sql and records its version in one transaction.
func (s *Store) createSchema(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create results tables: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
}
