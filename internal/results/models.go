package results

import (
	"time"

	"crqa/internal/recurrence"
)

// RunStatus represents the lifecycle of an analysis run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one invocation of the pipeline over an input file.
type Run struct {
	ID           string            `json:"id" yaml:"id"`
	Status       RunStatus         `json:"status" yaml:"status"`
	InputPath    string            `json:"input_path" yaml:"input_path"`
	Params       recurrence.Params `json:"params" yaml:"params"`
	DyadCount    int               `json:"dyad_count" yaml:"dyad_count"`
	FailedCount  int               `json:"failed_count" yaml:"failed_count"`
	ErrorMessage string            `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt    time.Time         `json:"created_at" yaml:"created_at"`
	FinishedAt   *time.Time        `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

// ShortID returns the first eight characters of the run ID for display.
func (r *Run) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// DyadResult is the stored outcome for a single dyad of a run. Failed dyads
// carry Error and leave every metric undefined.
type DyadResult struct {
	RunID           string            `json:"run_id" yaml:"run_id"`
	DyadID          string            `json:"dyad_id" yaml:"dyad_id"`
	Length          int               `json:"length" yaml:"length"`
	State           recurrence.State  `json:"state,omitempty" yaml:"state,omitempty"`
	EligibleCells   int               `json:"eligible_cells" yaml:"eligible_cells"`
	RecurrentPoints int               `json:"recurrent_points" yaml:"recurrent_points"`
	RR              recurrence.Metric `json:"rr" yaml:"rr"`
	DET             recurrence.Metric `json:"det" yaml:"det"`
	MeanL           recurrence.Metric `json:"mean_l" yaml:"mean_l"`
	MaxL            recurrence.Metric `json:"max_l" yaml:"max_l"`
	NRLine          int               `json:"nrline" yaml:"nrline"`
	ENTR            recurrence.Metric `json:"entr" yaml:"entr"`
	RENTR           recurrence.Metric `json:"rentr" yaml:"rentr"`
	LAM             recurrence.Metric `json:"lam" yaml:"lam"`
	TT              recurrence.Metric `json:"tt" yaml:"tt"`
	MaxV            recurrence.Metric `json:"max_v" yaml:"max_v"`
	Error           string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the dyad was rejected before analysis.
func (d DyadResult) Failed() bool {
	return d.Error != ""
}

// NewDyadResult flattens an engine result (or the error that prevented one)
// into a storable row.
func NewDyadResult(dyadID string, length int, res *recurrence.Result, err error) DyadResult {
	out := DyadResult{DyadID: dyadID, Length: length}
	if err != nil {
		out.Error = err.Error()
		return out
	}
	if res == nil {
		return out
	}
	out.State = res.State
	out.EligibleCells = res.EligibleCells
	out.RecurrentPoints = res.RecurrentPoints
	out.RR = res.RR
	out.DET = res.DET
	out.MeanL = res.MeanL
	out.MaxL = res.MaxL
	out.NRLine = res.NRLine
	out.ENTR = res.ENTR
	out.RENTR = res.RENTR
	out.LAM = res.LAM
	out.TT = res.TT
	out.MaxV = res.MaxV
	return out
}
