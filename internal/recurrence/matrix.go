package recurrence

import "fmt"

// Matrix is an immutable square recurrence matrix. Row i is parent point i and
// column j is child point j. The zero value is an empty 0x0 matrix.
type Matrix struct {
	n     int
	words []uint64
	count int
}

// EmptyMatrix returns an all-false n x n matrix. It is the well-formed stand-in
// used when no recurrence was found or no matrix was materialized.
func EmptyMatrix(n int) *Matrix {
	if n < 0 {
		n = 0
	}
	return &Matrix{n: n, words: make([]uint64, wordsFor(n*n))}
}

// MatrixFromRows copies a square boolean grid into a Matrix.
func MatrixFromRows(rows [][]bool) (*Matrix, error) {
	n := len(rows)
	m := EmptyMatrix(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			if v {
				m.set(i, j)
			}
		}
	}
	return m, nil
}

// BuildMatrix compares every parent point with every child point under p and
// returns the resulting recurrence matrix. The sequences must be non-empty and
// of equal length; with embedding the matrix side is EmbeddedLength.
func BuildMatrix(parent, child []int, p Params) (*Matrix, error) {
	if len(parent) == 0 || len(child) == 0 {
		return nil, ErrEmptySequence
	}
	if len(parent) != len(child) {
		return nil, fmt.Errorf("%w: parent has %d timepoints, child has %d", ErrLengthMismatch, len(parent), len(child))
	}
	p = p.normalized()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pe, err := newEmbedding(parent, p.Embed, p.Delay)
	if err != nil {
		return nil, fmt.Errorf("parent: %w", err)
	}
	ce, err := newEmbedding(child, p.Embed, p.Delay)
	if err != nil {
		return nil, fmt.Errorf("child: %w", err)
	}

	match := newComparator(p)
	m := EmptyMatrix(pe.length)
	for i := 0; i < pe.length; i++ {
		for j := 0; j < ce.length; j++ {
			if match(pe, ce, i, j) {
				m.set(i, j)
			}
		}
	}
	return m, nil
}

// Size returns the side length of the matrix.
func (m *Matrix) Size() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At reports whether parent point i and child point j are recurrent. Indices
// outside the matrix are never recurrent.
func (m *Matrix) At(i, j int) bool {
	if m == nil || i < 0 || j < 0 || i >= m.n || j >= m.n {
		return false
	}
	idx := i*m.n + j
	return m.words[idx/64]&(1<<(uint(idx)%64)) != 0
}

// Count returns the number of recurrent cells, including the main diagonal.
func (m *Matrix) Count() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Empty reports whether no cell is recurrent.
func (m *Matrix) Empty() bool {
	return m.Count() == 0
}

// Rows returns a copy of the matrix as a boolean grid.
func (m *Matrix) Rows() [][]bool {
	n := m.Size()
	rows := make([][]bool, n)
	for i := range rows {
		rows[i] = make([]bool, n)
		for j := range rows[i] {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}

// Transpose returns a new matrix with rows and columns swapped.
func (m *Matrix) Transpose() *Matrix {
	n := m.Size()
	t := EmptyMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m.At(i, j) {
				t.set(j, i)
			}
		}
	}
	return t
}

// Equal reports whether two matrices have the same shape and cells.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.Size() != other.Size() || m.Count() != other.Count() {
		return false
	}
	if m.Size() == 0 {
		return true
	}
	for i, w := range m.words {
		if other.words[i] != w {
			return false
		}
	}
	return true
}

// set is only used while a matrix is under construction.
func (m *Matrix) set(i, j int) {
	idx := i*m.n + j
	word, bit := idx/64, uint64(1)<<(uint(idx)%64)
	if m.words[word]&bit == 0 {
		m.words[word] |= bit
		m.count++
	}
}

func wordsFor(cells int) int {
	return (cells + 63) / 64
}
