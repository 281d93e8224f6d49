package report

import (
	"crqa/internal/recurrence"
	"crqa/internal/results"
)

// Summary aggregates the dyads of one run.
type Summary struct {
	Dyads        int               `json:"dyads" yaml:"dyads"`
	Analyzed     int               `json:"analyzed" yaml:"analyzed"`
	Failed       int               `json:"failed" yaml:"failed"`
	NoRecurrence int               `json:"no_recurrence" yaml:"no_recurrence"`
	MeanRR       recurrence.Metric `json:"mean_rr" yaml:"mean_rr"`
	MeanDET      recurrence.Metric `json:"mean_det" yaml:"mean_det"`
	MeanMeanL    recurrence.Metric `json:"mean_mean_l" yaml:"mean_mean_l"`
	MeanLAM      recurrence.Metric `json:"mean_lam" yaml:"mean_lam"`
	MeanTT       recurrence.Metric `json:"mean_tt" yaml:"mean_tt"`
}

// Summarize averages the headline metrics over analyzed dyads. With
// CoalesceNA an undefined metric contributes 0 to the mean; otherwise it is
// left out and a metric undefined for every dyad stays NA.
func Summarize(rows []results.DyadResult, p Policy) Summary {
	s := Summary{Dyads: len(rows)}
	var rr, det, meanL, lam, tt accumulator
	for _, row := range rows {
		if row.Failed() {
			s.Failed++
			continue
		}
		s.Analyzed++
		if row.State != recurrence.StateRecurrent {
			s.NoRecurrence++
		}
		rr.add(row.RR, p.CoalesceNA)
		det.add(row.DET, p.CoalesceNA)
		meanL.add(row.MeanL, p.CoalesceNA)
		lam.add(row.LAM, p.CoalesceNA)
		tt.add(row.TT, p.CoalesceNA)
	}
	s.MeanRR = rr.mean()
	s.MeanDET = det.mean()
	s.MeanMeanL = meanL.mean()
	s.MeanLAM = lam.mean()
	s.MeanTT = tt.mean()
	return s
}

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(m recurrence.Metric, coalesce bool) {
	switch {
	case m.Defined:
		a.sum += m.Value
		a.count++
	case coalesce:
		a.count++
	}
}

func (a accumulator) mean() recurrence.Metric {
	if a.count == 0 {
		return recurrence.Undefined
	}
	return recurrence.Defined(a.sum / float64(a.count))
}
