package recurrence

import (
	"encoding/json"
	"strconv"
)

// Metric is a statistic that may be undefined (0/0). Undefined metrics are
// never coerced to zero here.
type Metric struct {
	Value   float64
	Defined bool
}

// Undefined is the NA metric.
var Undefined = Metric{}

// Defined wraps a computed value.
func Defined(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

// Float64 returns the value and whether it is defined.
func (m Metric) Float64() (float64, bool) {
	return m.Value, m.Defined
}

// Or returns the value when defined and fallback otherwise.
func (m Metric) Or(fallback float64) float64 {
	if !m.Defined {
		return fallback
	}
	return m.Value
}

// String formats the metric, printing NA when undefined.
func (m Metric) String() string {
	if !m.Defined {
		return "NA"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON encodes undefined metrics as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as undefined.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Undefined
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Defined(v)
	return nil
}

// MarshalYAML encodes undefined metrics as null.
func (m Metric) MarshalYAML() (any, error) {
	if !m.Defined {
		return nil, nil
	}
	return m.Value, nil
}

func percent(num, den int) Metric {
	if den == 0 {
		return Undefined
	}
	return Defined(100 * float64(num) / float64(den))
}

func mean(total, count int) Metric {
	if count == 0 {
		return Undefined
	}
	return Defined(float64(total) / float64(count))
}
