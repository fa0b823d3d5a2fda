package simplex

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"q.log/tableau/model"
)

func TestSolveReference(t *testing.T) {
	tab := reference(t)
	res, err := Solve(tab)
	require.NoError(t, err)

	assert.Equal(t, Optimal, res.Status)
	assert.Equal(t, 3, res.Iterations)
	require.Len(t, res.Steps, 4)
	assert.Equal(t, []string{"Z", "x1", "x2", "x3", "x6"}, res.Basis)
	assert.InDeltaSlice(t, []float64{8.0 / 3, 8, 50.0 / 3, 0, 0, 1}, res.Solution.Values, 1e-9)
	assert.InDelta(t, 152, res.Solution.Objective, 1e-9)
	assert.False(t, NotOptimal(res.Final()))

	var entering, exiting []string
	for _, s := range res.Steps[:3] {
		require.NotNil(t, s.Pivot)
		entering = append(entering, s.Pivot.Entering)
		exiting = append(exiting, s.Pivot.Exiting)
	}
	assert.Equal(t, []string{"x1", "x2", "x3"}, entering)
	assert.Equal(t, []string{"x3", "x4", "x5"}, exiting)
	assert.Nil(t, res.Steps[3].Pivot)
	assert.Nil(t, res.Steps[3].Transition)

	// the input tableau is not modified
	assert.Equal(t, referenceRows(), tab.Rows())
}

func TestSolveReferenceTransitions(t *testing.T) {
	res, err := Solve(reference(t))
	require.NoError(t, err)

	want := []*mat.Dense{
		mat.NewDense(5, 5, []float64{
			1, 15.0 / 20, 0, 0, 0,
			0, 1.0 / 20, 0, 0, 0,
			0, -12.0 / 20, 1, 0, 0,
			0, -3.0 / 20, 0, 1, 0,
			0, 0, 0, 0, 1,
		}),
		mat.NewDense(5, 5, []float64{
			1, 0, 13.0 / 4, 0, 0,
			0, 1, -1.0 / 4, 0, 0,
			0, 0, 1.0 / 2, 0, 0,
			0, 0, -5.0 / 4, 1, 0,
			0, 0, -1.0 / 2, 0, 1,
		}),
		mat.NewDense(5, 5, []float64{
			1, 0, 0, 2, 0,
			0, 1, 0, -1.0 / 3, 0,
			0, 0, 1, 1.0 / 2, 0,
			0, 0, 0, 5.0 / 3, 0,
			0, 0, 0, -1.0 / 2, 1,
		}),
	}
	got := res.Transitions()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, mat.EqualApprox(want[i], got[i], 1e-9), "transition %d\n%v", i, mat.Formatted(got[i]))
	}
	assert.Len(t, res.Tableaus(), 4)
}

func TestSolveObjectiveNonDecreasing(t *testing.T) {
	res, err := Solve(reference(t))
	require.NoError(t, err)

	var zs []float64
	for _, s := range res.Steps {
		zs = append(zs, s.Solution.Objective)
	}
	assert.InDeltaSlice(t, []float64{0, 112.5, 132, 152}, zs, 1e-9)
	for i := 1; i < len(zs); i++ {
		assert.GreaterOrEqual(t, zs[i], zs[i-1])
	}
}

func TestSolvePivotLeavesUnitColumn(t *testing.T) {
	res, err := Solve(reference(t))
	require.NoError(t, err)

	for i, s := range res.Steps[:len(res.Steps)-1] {
		next := res.Steps[i+1].Tableau
		r, _ := next.Dims()
		unit := make([]float64, r)
		unit[s.Pivot.Row] = 1
		assert.InDeltaSlice(t, unit, mat.Col(nil, s.Pivot.Col, next.M), 1e-10)
		assert.Equal(t, s.Pivot.Entering, res.Steps[i+1].Basis[s.Pivot.Row])
		assert.NotContains(t, res.Steps[i+1].Basis, s.Pivot.Exiting)
	}
}

func TestSolveIterationLimit(t *testing.T) {
	res, err := Solve(reference(t), WithMaxIterations(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIterationLimit)

	var se *SolveError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, IterationLimitExceeded, se.Status)
	assert.Equal(t, 1, se.Iteration)
	assert.Equal(t, 112.5, se.Tableau.RHS(0))

	assert.Equal(t, IterationLimitExceeded, res.Status)
	assert.Len(t, res.Steps, 2)

	res, err = Solve(reference(t), WithMaxIterations(3))
	require.NoError(t, err)
	assert.Equal(t, Optimal, res.Status)
}

func TestSolveUnbounded(t *testing.T) {
	tab := mustTableau(t, [][]float64{
		{1, -1, -1, 0, 0},
		{0, 1, -1, 1, 2},
	}, labels("x1", "x2", "x3"))

	res, err := Solve(tab)
	assert.ErrorIs(t, err, ErrUnbounded)
	var se *SolveError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Unbounded, se.Status)
	assert.Equal(t, 1, se.Iteration)
	assert.Equal(t, Unbounded, res.Status)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, "x1", res.Steps[0].Pivot.Entering)
}

func TestSolveDegenerateTie(t *testing.T) {
	rows := [][]float64{
		{1, -1, 0, 0, 0},
		{0, 1, 1, 0, 2},
		{0, 1, 0, 1, 2},
	}
	for range 3 {
		res, err := Solve(mustTableau(t, rows, labels("x1", "x2", "x3")))
		require.NoError(t, err)
		assert.Equal(t, "x2", res.Steps[0].Pivot.Exiting)
		assert.Equal(t, []string{"Z", "x1", "x3"}, res.Basis)
		assert.Equal(t, []float64{2, 0, 0}, res.Solution.Values)
		assert.Equal(t, 2.0, res.Solution.Objective)
	}
}

func TestSolveInvalidTableau(t *testing.T) {
	tab := mustTableau(t, [][]float64{
		{1, -1, 0, 0},
		{0, 2, 2, 4},
	}, labels("x1", "x2"))

	res, err := Solve(tab)
	assert.ErrorIs(t, err, ErrInvalidTableau)
	var bnf *BasisNotFoundError
	require.ErrorAs(t, err, &bnf)
	assert.Equal(t, 1, bnf.Row)
	assert.Equal(t, InvalidTableau, res.Status)
	assert.Empty(t, res.Steps)

	_, err = Solve(&model.Tableau{M: mat.NewDense(2, 3, nil), Labels: labels("x1")})
	assert.ErrorIs(t, err, ErrInvalidTableau)
}

func TestSolveInfeasibleStart(t *testing.T) {
	tab := &model.Tableau{
		M: mat.NewDense(3, 5, []float64{
			1, -1, 0, 0, 0,
			0, 1, 1, 0, -2,
			0, 1, 0, 1, 4,
		}),
		Labels: labels("x1", "x2", "x3"),
	}

	res, err := Solve(tab)
	assert.ErrorIs(t, err, ErrInvalidTableau)
	var se *SolveError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, InvalidTableau, se.Status)
	assert.Equal(t, InvalidTableau, res.Status)
	assert.Empty(t, res.Steps)
}

func TestSolveSingularPivot(t *testing.T) {
	tab := mustTableau(t, [][]float64{
		{1, -1, 0, 0, 0},
		{0, 0, 1, 0, 5},
		{0, 1e-12, 0, 1, 1},
	}, labels("x1", "x2", "x3"))

	res, err := Solve(tab)
	assert.ErrorIs(t, err, ErrSingularPivot)
	var se *SolveError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, InvalidTableau, se.Status)
	assert.Equal(t, 0, se.Iteration)
	require.NotNil(t, se.Tableau)
	assert.Equal(t, 1e-12, se.Tableau.M.At(2, 1))

	assert.Equal(t, InvalidTableau, res.Status)
	require.Len(t, res.Steps, 1)
	assert.Nil(t, res.Steps[0].Pivot)
	assert.Equal(t, []string{"Z", "x2", "x3"}, res.Steps[0].Basis)
}

func TestSolveAlreadyOptimal(t *testing.T) {
	tab := mustTableau(t, [][]float64{
		{1, 2, 0, 0},
		{0, 1, 1, 4},
	}, labels("x1", "x2"))

	res, err := Solve(tab, WithMaxIterations(0))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, []float64{0, 4}, res.Solution.Values)
}

func TestSolveObserver(t *testing.T) {
	var seen []int
	res, err := Solve(reference(t), WithObserver(func(s Step) { seen = append(seen, s.Iteration) }))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Len(t, res.Steps, len(seen))
}

func TestSolveInvalidOptions(t *testing.T) {
	withTol := func(edit func(*Tolerance)) Option {
		tol := DefaultTolerance()
		edit(&tol)
		return WithTolerance(tol)
	}
	tests := []Option{
		WithMaxIterations(-1),
		withTol(func(tol *Tolerance) { tol.Epsilon = -1 }),
		withTol(func(tol *Tolerance) { tol.BasisDecimals = -2 }),
		withTol(func(tol *Tolerance) { tol.SolutionDecimals = -2 }),
	}
	for _, opt := range tests {
		_, err := Solve(reference(t), opt)
		assert.ErrorIs(t, err, ErrInvalidOption)
	}
}

func TestSolveWithTolerance(t *testing.T) {
	tab := mustTableau(t, [][]float64{
		{1, -1, 1e-9, 0},
		{0, 1, 1.0000000001, 4},
	}, labels("x1", "x2"))

	res, err := Solve(tab, WithTolerance(DefaultTolerance()))
	require.NoError(t, err)
	assert.Equal(t, Optimal, res.Status)

	strict := DefaultTolerance()
	strict.BasisDecimals = 12
	_, err = Solve(tab, WithTolerance(strict))
	assert.ErrorIs(t, err, ErrInvalidTableau)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", Optimal.String())
	assert.Equal(t, "iteration limit exceeded", IterationLimitExceeded.String())
	assert.Equal(t, "unknown", Status(42).String())
	assert.True(t, errors.Is(&SolveError{Err: ErrUnbounded}, ErrUnbounded))
}

// TestSolveMatchesGonum checks random bounded problems against the revised
// simplex in gonum's lp package.
func TestSolveMatchesGonum(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for trial := range 25 {
		rows, cols := 2+rnd.Intn(4), 2+rnd.Intn(4)
		m := model.NewModel(0, cols)
		c := make([]float64, cols)
		for j := range c {
			c[j] = 1 + 9*rnd.Float64()
		}
		require.NoError(t, m.SetC(c))
		for range rows {
			a := make([]float64, cols)
			for j := range a {
				a[j] = 0.5 + 9*rnd.Float64()
			}
			require.NoError(t, m.AddRow(a, model.LE, 10+90*rnd.Float64()))
		}
		tab, err := m.Tableau()
		require.NoError(t, err)

		res, err := Solve(tab, WithMaxIterations(100))
		require.NoError(t, err, "trial %d", trial)

		// min -c'x s.t. [A I][x s]' = b
		negC := make([]float64, cols+rows)
		for j := range c {
			negC[j] = -c[j]
		}
		std := mat.NewDense(rows, cols+rows, nil)
		b := make([]float64, rows)
		for i := range rows {
			for j := range cols {
				std.Set(i, j, m.A.At(i, j))
			}
			std.Set(i, cols+i, 1)
			b[i] = m.B.At(i, 0)
		}
		optF, _, err := lp.Simplex(negC, std, b, 1e-10, nil)
		require.NoError(t, err, "trial %d", trial)

		assert.InDelta(t, -optF, res.Solution.Objective, 1e-6, "trial %d", trial)
		assert.InDelta(t, mat.Dot(mat.NewVecDense(cols, c), mat.NewVecDense(cols, res.Solution.Values[:cols])),
			res.Solution.Objective, 1e-6, "trial %d", trial)
	}
}
