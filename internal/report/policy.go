package report

import (
	"strconv"

	"crqa/internal/config"
	"crqa/internal/recurrence"
)

// Policy controls how metrics are rendered for output.
type Policy struct {
	// CoalesceNA writes undefined metrics as 0.
	CoalesceNA bool
	// NAString represents undefined metrics when CoalesceNA is false.
	NAString string
	// Precision is the number of decimal places for metric values.
	Precision int
}

// DefaultPolicy coalesces NA to 0 with six decimal places.
func DefaultPolicy() Policy {
	return Policy{CoalesceNA: true, NAString: "NA", Precision: 6}
}

// PolicyFromConfig reads the [report] section.
func PolicyFromConfig(cfg config.Report) Policy {
	p := Policy{CoalesceNA: cfg.CoalesceNA, NAString: cfg.NAString, Precision: cfg.Precision}
	if p.NAString == "" {
		p.NAString = "NA"
	}
	return p
}

// Coalesce returns the metric value, or 0 when it is undefined.
func Coalesce(m recurrence.Metric) float64 {
	return m.Or(0)
}

// Format renders a metric according to the policy.
func (p Policy) Format(m recurrence.Metric) string {
	if !m.Defined {
		if p.CoalesceNA {
			return p.formatFloat(0)
		}
		return p.NAString
	}
	return p.formatFloat(m.Value)
}

// FormatNA renders an undefined value, ignoring CoalesceNA. Used for rows
// that have no metrics at all because the dyad failed validation.
func (p Policy) FormatNA() string {
	return p.NAString
}

func (p Policy) formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', p.Precision, 64)
}
