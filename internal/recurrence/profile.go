package recurrence

import (
	"errors"
	"fmt"
)

// Profile is a diagonal recurrence profile: the recurrence rate on each
// diagonal around the line of incidence. Positive lags pair parent point i
// with child point i+lag, so a peak at a positive lag means the child tends to
// follow the parent.
type Profile struct {
	Lags    []int     `json:"lags" yaml:"lags"`
	Rates   []float64 `json:"rates" yaml:"rates"`
	PeakLag int       `json:"peak_lag" yaml:"peak_lag"`
	Peak    float64   `json:"peak" yaml:"peak"`
}

// DiagonalProfile computes the recurrence rate (percent) for every lag in
// [-maxLag, maxLag]. maxLag is clipped to the matrix size. The peak is the
// highest rate; ties resolve to the lag closest to zero, negative first.
func DiagonalProfile(m *Matrix, maxLag int) (Profile, error) {
	if m == nil {
		return Profile{}, errNilMatrix
	}
	if maxLag < 0 {
		return Profile{}, fmt.Errorf("%w: max lag must be >= 0", ErrInvalidParams)
	}
	n := m.Size()
	if n == 0 {
		return Profile{}, ErrEmptySequence
	}
	if maxLag > n-1 {
		maxLag = n - 1
	}

	prof := Profile{
		Lags:  make([]int, 0, 2*maxLag+1),
		Rates: make([]float64, 0, 2*maxLag+1),
	}
	bestSet := false
	for lag := -maxLag; lag <= maxLag; lag++ {
		cells := n - abs(lag)
		hits := 0
		for t := 0; t < cells; t++ {
			i, j := t, t+lag
			if lag < 0 {
				i, j = t-lag, t
			}
			if m.At(i, j) {
				hits++
			}
		}
		rate := 100 * float64(hits) / float64(cells)
		prof.Lags = append(prof.Lags, lag)
		prof.Rates = append(prof.Rates, rate)

		if !bestSet || rate > prof.Peak || (rate == prof.Peak && abs(lag) < abs(prof.PeakLag)) {
			prof.Peak = rate
			prof.PeakLag = lag
			bestSet = true
		}
	}
	return prof, nil
}

// Rate returns the profile value at lag, or false when lag is out of range.
func (p Profile) Rate(lag int) (float64, bool) {
	for i, l := range p.Lags {
		if l == lag {
			return p.Rates[i], true
		}
	}
	return 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var errNilMatrix = errors.New("nil matrix")
