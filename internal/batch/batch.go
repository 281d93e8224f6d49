package batch

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"crqa/internal/dyad"
	"crqa/internal/recurrence"
)

// Outcome is the result of analyzing a single dyad. Exactly one of Result and
// Err is set.
type Outcome struct {
	DyadID string
	Length int
	Result *recurrence.Result
	Err    error
}

// Failed reports whether the dyad could not be analyzed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Options tunes a batch run.
type Options struct {
	Workers int
	// OnOutcome, when set, is called from worker goroutines as each dyad finishes.
	OnOutcome func(Outcome)
}

// Workers resolves the configured worker count. Values <= 0 use runtime.NumCPU().
func Workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Run analyzes every dyad with the given parameters and returns one outcome
// per dyad, sorted by dyad ID. Matrices are released before outcomes are
// returned. Dyads not yet started when ctx is cancelled carry ctx.Err().
func Run(ctx context.Context, dyads []dyad.Dyad, params recurrence.Params, opts Options) []Outcome {
	outcomes := make([]Outcome, len(dyads))
	if len(dyads) == 0 {
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(Workers(opts.Workers))

	for i, d := range dyads {
		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{DyadID: d.ID, Length: d.Len(), Err: err}
			continue
		}
		g.Go(func() error {
			out := analyzeOne(ctx, d, params)
			outcomes[i] = out
			if opts.OnOutcome != nil {
				opts.OnOutcome(out)
			}
			return nil
		})
	}
	_ = g.Wait() // workers always return nil; failures live on the outcome

	sort.SliceStable(outcomes, func(a, b int) bool { return outcomes[a].DyadID < outcomes[b].DyadID })
	return outcomes
}

func analyzeOne(ctx context.Context, d dyad.Dyad, params recurrence.Params) Outcome {
	out := Outcome{DyadID: d.ID, Length: d.Len()}
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}
	res, err := d.Analyze(params)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res.WithoutMatrix()
	return out
}

// Summary counts outcomes by state.
type Summary struct {
	Total        int `json:"total" yaml:"total"`
	Recurrent    int `json:"recurrent" yaml:"recurrent"`
	NoRecurrence int `json:"no_recurrence" yaml:"no_recurrence"`
	Degenerate   int `json:"degenerate" yaml:"degenerate"`
	Failed       int `json:"failed" yaml:"failed"`
}

// Summarize tallies a set of outcomes.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Failed() {
			s.Failed++
			continue
		}
		switch o.Result.State {
		case recurrence.StateRecurrent:
			s.Recurrent++
		case recurrence.StateNoRecurrence:
			s.NoRecurrence++
		case recurrence.StateDegenerate:
			s.Degenerate++
		}
	}
	return s
}
