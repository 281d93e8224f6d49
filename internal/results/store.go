package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"crqa/internal/recurrence"
)

// ErrRunNotFound is returned when a run reference matches no stored run.
var ErrRunNotFound = errors.New("run not found")

// LatestRef selects the most recently created run.
const LatestRef = "latest"

// CreateRun records a new run in the running state.
func (s *Store) CreateRun(ctx context.Context, inputPath string, params recurrence.Params) (*Run, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	run := &Run{
		ID:        uuid.NewString(),
		Status:    RunRunning,
		InputPath: inputPath,
		Params:    params,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (id, status, input_path, params_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.Status,
		nullableString(inputPath),
		string(paramsJSON),
		formatTime(run.CreatedAt),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// SaveResults upserts the per-dyad rows of a run in one transaction.
func (s *Store) SaveResults(ctx context.Context, runID string, rows []DyadResult) error {
	if len(rows) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO dyad_results (`+resultColumns+`)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, row := range rows {
			var state, eligible, recurrent, nrline any
			if !row.Failed() {
				state = string(row.State)
				eligible = row.EligibleCells
				recurrent = row.RecurrentPoints
				nrline = row.NRLine
			}
			if _, err := stmt.ExecContext(
				ctx,
				runID,
				row.DyadID,
				row.Length,
				state,
				eligible,
				recurrent,
				nullableMetric(row.RR),
				nullableMetric(row.DET),
				nullableMetric(row.MeanL),
				nullableMetric(row.MaxL),
				nrline,
				nullableMetric(row.ENTR),
				nullableMetric(row.RENTR),
				nullableMetric(row.LAM),
				nullableMetric(row.TT),
				nullableMetric(row.MaxV),
				nullableString(row.Error),
			); err != nil {
				return fmt.Errorf("dyad %s: %w", row.DyadID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save results for run %s: %w", runID, err)
	}
	return nil
}

// FinishRun marks a run terminal and refreshes its dyad counters from the
// stored rows.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, message string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs
         SET status = ?, error_message = ?, finished_at = ?,
             dyad_count = (SELECT COUNT(1) FROM dyad_results WHERE run_id = runs.id),
             failed_count = (SELECT COUNT(1) FROM dyad_results WHERE run_id = runs.id AND error IS NOT NULL)
         WHERE id = ?`,
		status,
		nullableString(message),
		formatTime(time.Now()),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns stored runs, newest first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun resolves a run reference: "latest" (or empty), a full ID, or an
// unambiguous ID prefix.
func (s *Store) GetRun(ctx context.Context, ref string) (*Run, error) {
	ctx = ensureContext(ctx)
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, LatestRef) {
		runs, err := s.ListRuns(ctx, 1)
		if err != nil {
			return nil, err
		}
		if len(runs) == 0 {
			return nil, fmt.Errorf("%w: no runs recorded yet", ErrRunNotFound)
		}
		return runs[0], nil
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, ref))
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 2`, stripLikeWildcards(ref)+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", ref)
	}
}

// Results returns the dyad rows of a run ordered by dyad ID.
func (s *Store) Results(ctx context.Context, runID string) ([]DyadResult, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+resultColumns+` FROM dyad_results WHERE run_id = ? ORDER BY dyad_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []DyadResult
	for rows.Next() {
		row, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its dyad rows.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	ctx = ensureContext(ctx)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM dyad_results WHERE run_id = ?`, runID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

func stripLikeWildcards(value string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(value)
}
