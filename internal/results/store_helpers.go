package results

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crqa/internal/recurrence"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

const runColumns = "id, status, input_path, params_json, dyad_count, failed_count, error_message, created_at, finished_at"

const resultColumns = "run_id, dyad_id, length, state, eligible_cells, recurrent_points, rr, det, mean_l, max_l, nrline, entr, rentr, lam, tt, max_v, error"

type scanner interface{ Scan(dest ...any) error }

func scanRun(row scanner) (*Run, error) {
	var (
		run         Run
		status      string
		inputPath   sql.NullString
		paramsJSON  string
		errorMsg    sql.NullString
		createdRaw  string
		finishedRaw sql.NullString
	)
	if err := row.Scan(
		&run.ID,
		&status,
		&inputPath,
		&paramsJSON,
		&run.DyadCount,
		&run.FailedCount,
		&errorMsg,
		&createdRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.InputPath = inputPath.String
	run.ErrorMessage = errorMsg.String
	if err := json.Unmarshal([]byte(paramsJSON), &run.Params); err != nil {
		return nil, fmt.Errorf("decode params for run %s: %w", run.ID, err)
	}
	if created, err := parseTime(createdRaw); err == nil {
		run.CreatedAt = created
	}
	if finishedRaw.Valid {
		if finished, err := parseTime(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func scanResult(row scanner) (DyadResult, error) {
	var (
		out       DyadResult
		state     sql.NullString
		eligible  sql.NullInt64
		recurrent sql.NullInt64
		nrline    sql.NullInt64
		errorMsg  sql.NullString
		metrics   [9]sql.NullFloat64
	)
	if err := row.Scan(
		&out.RunID,
		&out.DyadID,
		&out.Length,
		&state,
		&eligible,
		&recurrent,
		&metrics[0],
		&metrics[1],
		&metrics[2],
		&metrics[3],
		&nrline,
		&metrics[4],
		&metrics[5],
		&metrics[6],
		&metrics[7],
		&metrics[8],
		&errorMsg,
	); err != nil {
		return DyadResult{}, err
	}
	out.State = recurrence.State(state.String)
	out.EligibleCells = int(eligible.Int64)
	out.RecurrentPoints = int(recurrent.Int64)
	out.NRLine = int(nrline.Int64)
	out.Error = errorMsg.String
	out.RR = metricFrom(metrics[0])
	out.DET = metricFrom(metrics[1])
	out.MeanL = metricFrom(metrics[2])
	out.MaxL = metricFrom(metrics[3])
	out.ENTR = metricFrom(metrics[4])
	out.RENTR = metricFrom(metrics[5])
	out.LAM = metricFrom(metrics[6])
	out.TT = metricFrom(metrics[7])
	out.MaxV = metricFrom(metrics[8])
	return out, nil
}

func metricFrom(v sql.NullFloat64) recurrence.Metric {
	if !v.Valid {
		return recurrence.Undefined
	}
	return recurrence.Defined(v.Float64)
}

// nullableMetric stores undefined metrics as NULL.
func nullableMetric(m recurrence.Metric) any {
	if !m.Defined {
		return nil
	}
	return m.Value
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
