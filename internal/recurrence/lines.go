package recurrence

import "math"

// appendRuns appends the lengths of maximal runs of true cells along a line of
// the given length.
func appendRuns(dst []int, length int, at func(t int) bool) []int {
	run := 0
	for t := 0; t < length; t++ {
		if at(t) {
			run++
			continue
		}
		if run > 0 {
			dst = append(dst, run)
			run = 0
		}
	}
	if run > 0 {
		dst = append(dst, run)
	}
	return dst
}

// outside reports whether cell (i, j) lies outside the Theiler window.
func outside(i, j, window int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d >= window
}

// diagonalRuns returns the run lengths on every diagonal outside the window,
// upper and lower triangle alike.
func diagonalRuns(m *Matrix, window int) []int {
	n := m.Size()
	var runs []int
	for k := window; k < n; k++ {
		runs = appendRuns(runs, n-k, func(t int) bool { return m.At(t, t+k) })
		runs = appendRuns(runs, n-k, func(t int) bool { return m.At(t+k, t) })
	}
	return runs
}

// verticalRuns scans each column (fixed child point) top to bottom.
func verticalRuns(m *Matrix, window int) []int {
	n := m.Size()
	var runs []int
	for j := 0; j < n; j++ {
		runs = appendRuns(runs, n, func(i int) bool { return outside(i, j, window) && m.At(i, j) })
	}
	return runs
}

// horizontalRuns scans each row (fixed parent point) left to right.
func horizontalRuns(m *Matrix, window int) []int {
	n := m.Size()
	var runs []int
	for i := 0; i < n; i++ {
		runs = appendRuns(runs, n, func(j int) bool { return outside(i, j, window) && m.At(i, j) })
	}
	return runs
}

// lineStats summarizes the runs that reach the minimum length.
type lineStats struct {
	total int
	count int
	max   int
	// hist[l] is the number of qualifying runs of length l.
	hist []int
}

func summarizeRuns(runs []int, minLength int) lineStats {
	var s lineStats
	for _, l := range runs {
		if l < minLength {
			continue
		}
		s.total += l
		s.count++
		if l > s.max {
			s.max = l
		}
	}
	if s.count == 0 {
		return s
	}
	s.hist = make([]int, s.max+1)
	for _, l := range runs {
		if l >= minLength {
			s.hist[l]++
		}
	}
	return s
}

func (s lineStats) maxMetric() Metric {
	if s.count == 0 {
		return Undefined
	}
	return Defined(float64(s.max))
}

// entropy returns the Shannon entropy (natural log) of the run length
// distribution and the number of distinct lengths. Lengths are visited in
// ascending order so the sum is reproducible.
func (s lineStats) entropy() (Metric, int) {
	if s.count == 0 {
		return Undefined, 0
	}
	var h float64
	distinct := 0
	for _, c := range s.hist {
		if c == 0 {
			continue
		}
		distinct++
		p := float64(c) / float64(s.count)
		h -= p * math.Log(p)
	}
	return Defined(h), distinct
}
