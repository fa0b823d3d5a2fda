package simplex

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/model"
)

// Pivot describes one basis change.
type Pivot struct {
	Row      int
	Col      int
	Entering string
	Exiting  string
	Element  float64
	Ratio    float64
}

// EnterExit picks the entering variable by Dantzig's rule and the exiting
// one by the minimum ratio test. Ties go to the first column and the first
// row. Rows whose entering coefficient is not positive take no part in the
// ratio test; if no row is left the problem is unbounded.
func EnterExit(t *model.Tableau, basis []string) (Pivot, error) {
	r, c := t.Dims()
	if len(basis) != r {
		return Pivot{}, errors.Wrapf(ErrInvalidTableau, "basis has %d entries for %d rows", len(basis), r)
	}

	costs := mat.Row(nil, 0, t.M)[1 : c-1]
	col := floats.MinIdx(costs) + 1
	if costs[col-1] >= 0 {
		return Pivot{}, ErrNoEntering
	}

	// +Inf marks a row with no bound on the entering variable.
	ratios := make([]float64, r-1)
	bounded := false
	for i := 1; i < r; i++ {
		a := t.M.At(i, col)
		if a > 0 {
			ratios[i-1] = t.RHS(i) / a
			bounded = true
			continue
		}
		ratios[i-1] = math.Inf(1)
	}
	if !bounded {
		return Pivot{}, errors.Wrapf(ErrUnbounded, "%s can increase without bound", t.Labels[col])
	}
	row := floats.MinIdx(ratios) + 1

	return Pivot{
		Row:      row,
		Col:      col,
		Entering: t.Labels[col],
		Exiting:  basis[row],
		Element:  t.M.At(row, col),
		Ratio:    ratios[row-1],
	}, nil
}

// Transition returns the m×m matrix that pivots t on (row, col): the
// identity with column row replaced so that T×t has a 1 at (row, col) and
// zeros elsewhere in col.
func Transition(t *model.Tableau, row, col int, tol Tolerance) (*mat.Dense, error) {
	r, c := t.Dims()
	if row < 0 || row >= r || col < 0 || col >= c {
		return nil, errors.Wrapf(ErrInvalidTableau, "pivot (%d,%d) outside %dx%d tableau", row, col, r, c)
	}
	p := t.M.At(row, col)
	if p == 0 || math.Abs(p) <= tol.Epsilon {
		return nil, errors.Wrapf(ErrSingularPivot, "element (%d,%d) is %v", row, col, p)
	}

	tm := mat.NewDense(r, r, nil)
	for i := range r {
		tm.Set(i, i, 1)
	}
	for i := range r {
		if i == row {
			tm.Set(i, row, 1/p)
			continue
		}
		tm.Set(i, row, -t.M.At(i, col)/p)
	}

	return tm, nil
}

// Apply returns transition×t with entries smaller than tol.Epsilon in
// magnitude set to zero.
func Apply(t *model.Tableau, transition mat.Matrix, tol Tolerance) *model.Tableau {
	var next mat.Dense
	next.Mul(transition, t.M)
	next.Apply(func(_, _ int, v float64) float64 { return tol.Snap(v) }, &next)

	return t.WithMatrix(&next)
}
