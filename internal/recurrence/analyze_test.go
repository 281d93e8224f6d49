package recurrence_test

import (
	"encoding/json"
	"math"
	"testing"

	"crqa/internal/recurrence"
)

func approx(t *testing.T, name string, got recurrence.Metric, want float64) {
	t.Helper()
	if !got.Defined {
		t.Fatalf("%s: expected %v, got NA", name, want)
	}
	if math.Abs(got.Value-want) > 1e-9 {
		t.Fatalf("%s: got %v want %v", name, got.Value, want)
	}
}

func undefined(t *testing.T, name string, got recurrence.Metric) {
	t.Helper()
	if got.Defined {
		t.Fatalf("%s: expected NA, got %v", name, got.Value)
	}
}

func TestAnalyzeToySequences(t *testing.T) {
	res, err := recurrence.Analyze(toyParent, toyChild, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Size != 15 || res.Matrix().Size() != 15 {
		t.Fatalf("expected 15x15 result, got %d", res.Size)
	}
	if res.State != recurrence.StateRecurrent || res.NoRecurrence() {
		t.Fatalf("expected recurrent state, got %s", res.State)
	}
	if res.EligibleCells != 210 || res.RecurrentPoints != 48 {
		t.Fatalf("unexpected counts eligible=%d recurrent=%d", res.EligibleCells, res.RecurrentPoints)
	}
	approx(t, "RR", res.RR, 100*48.0/210.0)
	approx(t, "DET", res.DET, 50)
	approx(t, "meanL", res.MeanL, 2)
	approx(t, "maxL", res.MaxL, 2)
	approx(t, "LAM", res.LAM, 37.5)
	approx(t, "TT", res.TT, 2)
	approx(t, "ENTR", res.ENTR, 0)
	undefined(t, "rENTR", res.RENTR)
	if res.NRLine != 12 {
		t.Fatalf("NRLINE = %d, want 12", res.NRLine)
	}
}

func TestAnalyzeNoRecurrence(t *testing.T) {
	parent := []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
	child := []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	res, err := recurrence.Analyze(parent, child, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.RR.Value != 0 || !res.RR.Defined {
		t.Fatalf("expected RR exactly 0, got %s", res.RR)
	}
	if res.State != recurrence.StateNoRecurrence || !res.NoRecurrence() {
		t.Fatalf("expected no-recurrence sentinel, got %s", res.State)
	}
	for name, m := range map[string]recurrence.Metric{"DET": res.DET, "meanL": res.MeanL, "LAM": res.LAM, "TT": res.TT} {
		undefined(t, name, m)
	}

	released := res.WithoutMatrix()
	m := released.Matrix()
	if m == nil || m.Size() != 10 || !m.Empty() {
		t.Fatalf("expected synthesized empty 10x10 matrix, got %v", m)
	}
}

func TestAnalyzeSingleTimepoint(t *testing.T) {
	res, err := recurrence.Analyze([]int{1}, []int{2}, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	undefined(t, "RR", res.RR)
	if res.State != recurrence.StateDegenerate {
		t.Fatalf("expected degenerate state, got %s", res.State)
	}
	if res.Matrix().Size() != 1 {
		t.Fatalf("expected 1x1 matrix, got %d", res.Matrix().Size())
	}
}

func TestMainDiagonalIsExcluded(t *testing.T) {
	// Only the line of incidence recurs.
	m := mustRows(t, "#...", ".#..", "..#.", "...#")
	res, err := recurrence.Compute(m, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.RecurrentPoints != 0 || res.EligibleCells != 12 {
		t.Fatalf("diagonal cells leaked into counts: recurrent=%d eligible=%d", res.RecurrentPoints, res.EligibleCells)
	}
	approx(t, "RR", res.RR, 0)
	undefined(t, "DET", res.DET)
	undefined(t, "LAM", res.LAM)
}

func TestMainDiagonalBreaksVerticalRuns(t *testing.T) {
	// Column 1 is recurrent in rows 0..2 but row 1 sits on the main diagonal.
	m := mustRows(t, ".#..", ".#..", ".#..", "....")
	res, err := recurrence.Compute(m, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.RecurrentPoints != 2 {
		t.Fatalf("expected 2 recurrent points, got %d", res.RecurrentPoints)
	}
	approx(t, "LAM", res.LAM, 0)
	undefined(t, "TT", res.TT)
}

func TestDiagonalBoundaryAtMinimumLength(t *testing.T) {
	// Upper diagonal k=1 holds a run of exactly 2 and a run of 1; k=-3 a run of 1.
	m := mustRows(t,
		".#....",
		"..#...",
		"......",
		"#.....",
		".....#",
		"......",
	)
	res, err := recurrence.Compute(m, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	approx(t, "DET", res.DET, 50)
	approx(t, "meanL", res.MeanL, 2)
	if res.NRLine != 1 {
		t.Fatalf("NRLINE = %d, want 1", res.NRLine)
	}

	params := recurrence.DefaultParams()
	params.MinDiagLine = 3
	res, err = recurrence.Compute(m, params)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	approx(t, "DET", res.DET, 0)
	undefined(t, "meanL", res.MeanL)
	undefined(t, "maxL", res.MaxL)
}

func TestLineDirections(t *testing.T) {
	m := mustRows(t, "...#..", "...#..", "...#..", "......", "#.....", "##....")
	cases := []struct {
		direction recurrence.LineDirection
		lam, tt   float64
		maxV      float64
	}{
		{recurrence.DirectionVertical, 500.0 / 6.0, 2.5, 3},
		{recurrence.DirectionHorizontal, 200.0 / 6.0, 2, 2},
		{recurrence.DirectionBoth, 700.0 / 12.0, 7.0 / 3.0, 3},
	}
	for _, tc := range cases {
		t.Run(string(tc.direction), func(t *testing.T) {
			params := recurrence.DefaultParams()
			params.Direction = tc.direction
			res, err := recurrence.Compute(m, params)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			approx(t, "RR", res.RR, 20)
			approx(t, "DET", res.DET, 100.0/3.0)
			approx(t, "LAM", res.LAM, tc.lam)
			approx(t, "TT", res.TT, tc.tt)
			approx(t, "maxV", res.MaxV, tc.maxV)
		})
	}
}

func TestEntropyWithTwoLengthClasses(t *testing.T) {
	m := mustRows(t, "..#..#", "#..#..", "###...", "..#.#.", "...##.", "#....#")
	res, err := recurrence.Compute(m, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	approx(t, "RR", res.RR, 100.0/3.0)
	approx(t, "DET", res.DET, 60)
	approx(t, "meanL", res.MeanL, 3)
	approx(t, "maxL", res.MaxL, 4)
	approx(t, "ENTR", res.ENTR, math.Ln2)
	approx(t, "rENTR", res.RENTR, 1)
	approx(t, "LAM", res.LAM, 20)
	approx(t, "TT", res.TT, 2)
}

func TestTheilerWindowWidensExclusion(t *testing.T) {
	params := recurrence.DefaultParams()
	params.TheilerWindow = 2
	res, err := recurrence.Analyze(toyParent, toyChild, params)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.EligibleCells != 182 || res.RecurrentPoints != 38 {
		t.Fatalf("unexpected counts eligible=%d recurrent=%d", res.EligibleCells, res.RecurrentPoints)
	}
	approx(t, "RR", res.RR, 100*38.0/182.0)
	approx(t, "DET", res.DET, 1600.0/38.0)
	approx(t, "LAM", res.LAM, 1200.0/38.0)
}

// lcg is a tiny deterministic generator so property checks need no seeding.
type lcg uint64

func (g *lcg) next() uint64 {
	*g = *g*6364136223846793005 + 1442695040888963407
	return uint64(*g >> 33)
}

func randomMatrix(t *testing.T, g *lcg, n int) *recurrence.Matrix {
	t.Helper()
	rows := make([][]bool, n)
	for i := range rows {
		rows[i] = make([]bool, n)
		for j := range rows[i] {
			rows[i][j] = g.next()%3 == 0
		}
	}
	m, err := recurrence.MatrixFromRows(rows)
	if err != nil {
		t.Fatalf("MatrixFromRows: %v", err)
	}
	return m
}

func sameMetric(a, b recurrence.Metric) bool {
	if a.Defined != b.Defined {
		return false
	}
	return !a.Defined || math.Abs(a.Value-b.Value) < 1e-9
}

func TestPropertiesOnRandomMatrices(t *testing.T) {
	g := lcg(42)
	vertical := recurrence.DefaultParams()
	horizontal := recurrence.DefaultParams()
	horizontal.Direction = recurrence.DirectionHorizontal
	both := recurrence.DefaultParams()
	both.Direction = recurrence.DirectionBoth

	for trial := 0; trial < 50; trial++ {
		n := 2 + int(g.next()%20)
		m := randomMatrix(t, &g, n)
		tr := m.Transpose()

		res, err := recurrence.Compute(m, vertical)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		resT, err := recurrence.Compute(tr, horizontal)
		if err != nil {
			t.Fatalf("Compute transpose: %v", err)
		}
		for name, pair := range map[string][2]recurrence.Metric{
			"RR":    {res.RR, resT.RR},
			"DET":   {res.DET, resT.DET},
			"meanL": {res.MeanL, resT.MeanL},
			"LAM":   {res.LAM, resT.LAM},
			"TT":    {res.TT, resT.TT},
		} {
			if !sameMetric(pair[0], pair[1]) {
				t.Fatalf("trial %d: %s changed under transpose: %v vs %v", trial, name, pair[0], pair[1])
			}
		}

		resBoth, _ := recurrence.Compute(m, both)
		resBothT, _ := recurrence.Compute(tr, both)
		if !sameMetric(resBoth.LAM, resBothT.LAM) || !sameMetric(resBoth.TT, resBothT.TT) {
			t.Fatalf("trial %d: LAM/TT with both directions should be transpose invariant", trial)
		}

		for name, v := range map[string]recurrence.Metric{"RR": res.RR, "DET": res.DET, "LAM": res.LAM, "LAM both": resBoth.LAM} {
			if v.Defined && (v.Value < 0 || v.Value > 100) {
				t.Fatalf("trial %d: %s out of range: %v", trial, name, v.Value)
			}
		}
		if res.DET.Defined && res.DET.Value > 0 && res.MeanL.Value < float64(vertical.MinDiagLine) {
			t.Fatalf("trial %d: meanL %v below minimum", trial, res.MeanL.Value)
		}
		if res.LAM.Defined && res.LAM.Value > 0 && res.TT.Value < float64(vertical.MinVertLine) {
			t.Fatalf("trial %d: TT %v below minimum", trial, res.TT.Value)
		}
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	first, err := recurrence.Analyze(toyParent, toyChild, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := recurrence.Analyze(toyParent, toyChild, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("results differ:\n%s\n%s", a, b)
	}
	if !first.Matrix().Equal(second.Matrix()) {
		t.Fatal("matrices differ between identical calls")
	}
}

func TestMetricEncoding(t *testing.T) {
	data, err := json.Marshal(struct {
		A recurrence.Metric `json:"a"`
		B recurrence.Metric `json:"b"`
	}{recurrence.Defined(2.5), recurrence.Undefined})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":2.5,"b":null}` {
		t.Fatalf("unexpected json %s", data)
	}
	var back struct {
		A recurrence.Metric `json:"a"`
		B recurrence.Metric `json:"b"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.A.Defined || back.A.Value != 2.5 || back.B.Defined {
		t.Fatalf("unexpected decode %+v", back)
	}
	if recurrence.Undefined.String() != "NA" || recurrence.Undefined.Or(0) != 0 {
		t.Fatal("undefined metric should print NA and coalesce to the fallback")
	}
}
