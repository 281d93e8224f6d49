package recurrence_test

import (
	"errors"
	"testing"

	"crqa/internal/recurrence"
)

var (
	toyParent = []int{3, 2, 1, 1, 2, 1, 3, 5, 1, 2, 1, 1, 5, 1, 1}
	toyChild  = []int{6, 1, 2, 2, 1, 2, 6, 4, 2, 1, 2, 2, 4, 2, 2}
)

func mustRows(t *testing.T, rows ...string) *recurrence.Matrix {
	t.Helper()
	grid := make([][]bool, len(rows))
	for i, row := range rows {
		grid[i] = make([]bool, len(row))
		for j, ch := range row {
			grid[i][j] = ch == '#'
		}
	}
	m, err := recurrence.MatrixFromRows(grid)
	if err != nil {
		t.Fatalf("MatrixFromRows: %v", err)
	}
	return m
}

func TestBuildMatrixToySequences(t *testing.T) {
	m, err := recurrence.BuildMatrix(toyParent, toyChild, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if m.Size() != 15 {
		t.Fatalf("expected 15x15 matrix, got %d", m.Size())
	}
	rows := m.Rows()
	if len(rows) != 15 {
		t.Fatalf("expected 15 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 15 {
			t.Fatalf("row %d has %d columns", i, len(row))
		}
		for j, v := range row {
			if want := toyParent[i] == toyChild[j]; v != want {
				t.Fatalf("cell (%d,%d) = %v, want %v", i, j, v, want)
			}
		}
	}
	if !m.At(2, 1) {
		t.Fatal("expected parent number talk at 2 to recur with child number talk at 1")
	}
	if m.At(0, 0) {
		t.Fatal("non-number-talk codes must not recur")
	}
}

func TestBuildMatrixAllConstantHasNoRecurrence(t *testing.T) {
	parent := make([]int, 10)
	child := make([]int, 10)
	for i := range parent {
		parent[i] = 2
		child[i] = 1
	}
	m, err := recurrence.BuildMatrix(parent, child, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if m.Size() != 10 || !m.Empty() {
		t.Fatalf("expected empty 10x10 matrix, got size=%d count=%d", m.Size(), m.Count())
	}
	if !m.Equal(recurrence.EmptyMatrix(10)) {
		t.Fatal("expected matrix to equal synthesized empty matrix")
	}
}

func TestBuildMatrixRejectsBadInput(t *testing.T) {
	params := recurrence.DefaultParams()
	cases := []struct {
		name   string
		parent []int
		child  []int
		params recurrence.Params
		want   error
	}{
		{"empty", nil, nil, params, recurrence.ErrEmptySequence},
		{"empty child", []int{1}, []int{}, params, recurrence.ErrEmptySequence},
		{"length mismatch", []int{1, 2}, []int{2}, params, recurrence.ErrLengthMismatch},
		{"embedding too long", []int{1, 2, 3}, []int{2, 1, 3}, func() recurrence.Params {
			p := params
			p.Embed = 3
			p.Delay = 2
			return p
		}(), recurrence.ErrEmbeddingTooLong},
		{"bad min line", []int{1}, []int{2}, func() recurrence.Params {
			p := params
			p.MinDiagLine = 1
			return p
		}(), recurrence.ErrInvalidParams},
		{"zero theiler window", []int{1}, []int{2}, func() recurrence.Params {
			p := params
			p.TheilerWindow = 0
			return p
		}(), recurrence.ErrInvalidParams},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := recurrence.BuildMatrix(tc.parent, tc.child, tc.params)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildMatrixDelayEmbedding(t *testing.T) {
	params := recurrence.DefaultParams()
	params.Embed = 2
	params.Delay = 1
	m, err := recurrence.BuildMatrix([]int{1, 2, 1, 2}, []int{1, 2, 1, 2}, params)
	if err != nil {
		t.Fatalf("BuildMatrix: %v", err)
	}
	if m.Size() != 3 {
		t.Fatalf("expected embedded length 3, got %d", m.Size())
	}
	want := mustRows(t, "#.#", ".#.", "#.#")
	if !m.Equal(want) {
		t.Fatalf("unexpected embedded matrix: %v", m.Rows())
	}
	if got := recurrence.EmbeddedLength(10, 3, 2); got != 6 {
		t.Fatalf("EmbeddedLength = %d, want 6", got)
	}
}

func TestDistanceMatchUsesRadius(t *testing.T) {
	parent := []int{1, 2, 3}
	child := []int{2, 3, 5}

	categorical, err := recurrence.BuildMatrix(parent, child, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("BuildMatrix categorical: %v", err)
	}
	if categorical.Count() != 2 {
		t.Fatalf("expected 2 exact matches, got %d", categorical.Count())
	}

	params := recurrence.DefaultParams()
	params.Match = recurrence.MatchDistance
	params.Radius = 1
	wide, err := recurrence.BuildMatrix(parent, child, params)
	if err != nil {
		t.Fatalf("BuildMatrix distance: %v", err)
	}
	// |p-c| <= 1: (0,0) (1,0) (1,1) (2,0) (2,1)
	if wide.Count() != 5 {
		t.Fatalf("expected 5 matches within radius 1, got %d", wide.Count())
	}

	params.Radius = 0.5
	narrow, err := recurrence.BuildMatrix(parent, child, params)
	if err != nil {
		t.Fatalf("BuildMatrix narrow: %v", err)
	}
	if !narrow.Equal(categorical) {
		t.Fatal("radius below the category spacing should reduce to exact equality")
	}
}

func TestMaxNormMatchesEuclideanInOneDimension(t *testing.T) {
	params := recurrence.DefaultParams()
	params.Match = recurrence.MatchDistance
	params.Radius = 1
	euclid, err := recurrence.BuildMatrix(toyParent, toyChild, params)
	if err != nil {
		t.Fatalf("BuildMatrix euclidean: %v", err)
	}
	params.Norm = recurrence.NormMax
	maxNorm, err := recurrence.BuildMatrix(toyParent, toyChild, params)
	if err != nil {
		t.Fatalf("BuildMatrix max: %v", err)
	}
	if !euclid.Equal(maxNorm) {
		t.Fatal("norms should agree for one-dimensional points")
	}
}

func TestTransposeSwapsRoles(t *testing.T) {
	m := mustRows(t, "...#..", "...#..", "...#..", "......", "#.....", "##....")
	tr := m.Transpose()
	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			if m.At(i, j) != tr.At(j, i) {
				t.Fatalf("transpose mismatch at (%d,%d)", i, j)
			}
		}
	}
	if !tr.Transpose().Equal(m) {
		t.Fatal("double transpose should round-trip")
	}
}

func TestMatrixFromRowsRejectsRagged(t *testing.T) {
	if _, err := recurrence.MatrixFromRows([][]bool{{true, false}, {true}}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestAtOutOfRange(t *testing.T) {
	m := recurrence.EmptyMatrix(2)
	if m.At(-1, 0) || m.At(0, 2) || m.At(5, 5) {
		t.Fatal("out-of-range cells must read as false")
	}
	var nilMatrix *recurrence.Matrix
	if nilMatrix.Size() != 0 || nilMatrix.At(0, 0) {
		t.Fatal("nil matrix should behave as empty")
	}
}
