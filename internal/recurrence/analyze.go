package recurrence

import (
	"fmt"
	"math"
)

// State summarizes whether a matrix carried any recurrence at all.
type State string

const (
	// StateRecurrent means at least one cell outside the Theiler window recurs.
	StateRecurrent State = "recurrent"
	// StateNoRecurrence means no cell outside the Theiler window recurs. The
	// matrix is still well formed (all false) and every ratio metric is NA.
	StateNoRecurrence State = "no_recurrence"
	// StateDegenerate means no cell lies outside the Theiler window, as for a
	// single timepoint. RR itself is NA.
	StateDegenerate State = "degenerate"
)

// Result holds the statistics of one (sequence pair, parameter set) analysis.
// It is never modified after Compute returns.
type Result struct {
	Size            int    `json:"size" yaml:"size"`
	Params          Params `json:"params" yaml:"params"`
	State           State  `json:"state" yaml:"state"`
	EligibleCells   int    `json:"eligible_cells" yaml:"eligible_cells"`
	RecurrentPoints int    `json:"recurrent_points" yaml:"recurrent_points"`

	RR     Metric `json:"rr" yaml:"rr"`
	DET    Metric `json:"det" yaml:"det"`
	MeanL  Metric `json:"mean_l" yaml:"mean_l"`
	MaxL   Metric `json:"max_l" yaml:"max_l"`
	NRLine int    `json:"nrline" yaml:"nrline"`
	ENTR   Metric `json:"entr" yaml:"entr"`
	RENTR  Metric `json:"rentr" yaml:"rentr"`
	LAM    Metric `json:"lam" yaml:"lam"`
	TT     Metric `json:"tt" yaml:"tt"`
	MaxV   Metric `json:"max_v" yaml:"max_v"`

	matrix *Matrix
}

// Analyze builds the recurrence matrix for the pair and computes its
// statistics. The returned Result retains the matrix.
func Analyze(parent, child []int, p Params) (*Result, error) {
	p = p.normalized()
	m, err := BuildMatrix(parent, child, p)
	if err != nil {
		return nil, err
	}
	return Compute(m, p)
}

// Compute derives all statistics from an existing matrix.
func Compute(m *Matrix, p Params) (*Result, error) {
	if m == nil {
		return nil, errNilMatrix
	}
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := m.Size()
	window := p.TheilerWindow
	eligible := n*n - windowCells(n, window)
	recurrent := m.Count() - recurrentInWindow(m, window)

	res := &Result{
		Size:            n,
		Params:          p,
		EligibleCells:   eligible,
		RecurrentPoints: recurrent,
		RR:              percent(recurrent, eligible),
		matrix:          m,
	}
	switch {
	case eligible == 0:
		res.State = StateDegenerate
	case recurrent == 0:
		res.State = StateNoRecurrence
	default:
		res.State = StateRecurrent
	}

	diag := summarizeRuns(diagonalRuns(m, window), p.MinDiagLine)
	res.DET = percent(diag.total, recurrent)
	res.MeanL = mean(diag.total, diag.count)
	res.MaxL = diag.maxMetric()
	res.NRLine = diag.count
	var distinct int
	res.ENTR, distinct = diag.entropy()
	if res.ENTR.Defined && distinct >= 2 {
		res.RENTR = Defined(res.ENTR.Value / math.Log(float64(distinct)))
	}

	var runs []int
	denominator := recurrent
	switch p.Direction {
	case DirectionHorizontal:
		runs = horizontalRuns(m, window)
	case DirectionBoth:
		runs = append(verticalRuns(m, window), horizontalRuns(m, window)...)
		denominator = 2 * recurrent
	default:
		runs = verticalRuns(m, window)
	}
	vert := summarizeRuns(runs, p.MinVertLine)
	res.LAM = percent(vert.total, denominator)
	res.TT = mean(vert.total, vert.count)
	res.MaxV = vert.maxMetric()

	return res, nil
}

// Matrix returns the recurrence matrix behind the result. When the matrix was
// released but the result carries no recurrence, an all-false matrix of the
// right size is synthesized. It returns nil only for a released matrix that
// did contain recurrent cells.
func (r *Result) Matrix() *Matrix {
	if r == nil {
		return nil
	}
	if r.matrix != nil {
		return r.matrix
	}
	if r.State != StateRecurrent {
		return EmptyMatrix(r.Size)
	}
	return nil
}

// WithoutMatrix returns a copy of the result that does not hold the O(N^2)
// matrix. Batch callers keep these.
func (r *Result) WithoutMatrix() *Result {
	if r == nil {
		return nil
	}
	cp := *r
	cp.matrix = nil
	return &cp
}

// NoRecurrence reports the zero-recurrence sentinel, including the degenerate
// case where no off-diagonal cells exist.
func (r *Result) NoRecurrence() bool {
	return r != nil && r.State != StateRecurrent
}

func (r *Result) String() string {
	return fmt.Sprintf("RR=%s DET=%s meanL=%s LAM=%s TT=%s", r.RR, r.DET, r.MeanL, r.LAM, r.TT)
}

// windowCells counts the cells with |i-j| < window in an n x n matrix.
func windowCells(n, window int) int {
	cells := 0
	for k := 0; k < window && k < n; k++ {
		if k == 0 {
			cells += n
			continue
		}
		cells += 2 * (n - k)
	}
	return cells
}

func recurrentInWindow(m *Matrix, window int) int {
	n := m.Size()
	count := 0
	for i := 0; i < n; i++ {
		lo := max(0, i-window+1)
		hi := min(n-1, i+window-1)
		for j := lo; j <= hi; j++ {
			if m.At(i, j) {
				count++
			}
		}
	}
	return count
}
