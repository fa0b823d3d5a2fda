package simplex

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/model"
)

// Solution is the basic feasible solution read off a tableau.
type Solution struct {
	// Values holds one entry per variable column (every column but Z and RHS).
	Values    []float64
	Objective float64
}

// NotOptimal reports whether some reduced cost in row 0 is negative.
// Column 0 (Z) and the RHS, which holds the objective value, are skipped.
func NotOptimal(t *model.Tableau) bool {
	_, c := t.Dims()
	for j := 1; j < c-1; j++ {
		if t.M.At(0, j) < 0 {
			return true
		}
	}
	return false
}

// BasicVariables returns, for every row i, the label of the first column
// equal to the unit vector e_i. Columns are compared exactly first and,
// failing that, after rounding to tol.BasisDecimals.
func BasicVariables(t *model.Tableau, tol Tolerance) ([]string, error) {
	r, c := t.Dims()
	cols := make([][]float64, c)
	for j := range c {
		cols[j] = mat.Col(nil, j, t.M)
	}

	basis := make([]string, r)
	for i := range r {
		j := unitColumn(cols, i, func(v, want float64) bool { return v == want })
		if j < 0 {
			j = unitColumn(cols, i, func(v, want float64) bool {
				return tol.EqualRounded(v, want, tol.BasisDecimals)
			})
		}
		if j < 0 {
			return nil, &BasisNotFoundError{Row: i}
		}
		basis[i] = t.Labels[j]
	}

	return basis, nil
}

func unitColumn(cols [][]float64, row int, eq func(v, want float64) bool) int {
next:
	for j, col := range cols {
		for i, v := range col {
			want := 0.0
			if i == row {
				want = 1
			}
			if !eq(v, want) {
				continue next
			}
		}
		return j
	}
	return -1
}

// Extract reads the basic feasible solution and objective value from t.
func Extract(t *model.Tableau, basis []string, tol Tolerance) (Solution, error) {
	r, c := t.Dims()
	if len(basis) != r {
		return Solution{}, errors.Wrapf(ErrInvalidTableau, "basis has %d entries for %d rows", len(basis), r)
	}

	sol := Solution{Values: make([]float64, c-2)}
	for i, label := range basis {
		col := t.Col(label)
		if col < 0 {
			return Solution{}, errors.Wrapf(ErrInvalidTableau, "unknown basic variable %q", label)
		}
		row := -1
		for k := range r {
			if scalarOne(t.M.At(k, col), tol) {
				row = k
				break
			}
		}
		if row < 0 {
			return Solution{}, &BasisNotFoundError{Row: i}
		}

		if i == 0 {
			sol.Objective = t.RHS(row)
			continue
		}
		if col == 0 || col == c-1 {
			return Solution{}, errors.Wrapf(ErrInvalidTableau, "%q cannot be basic in row %d", label, i)
		}
		sol.Values[col-1] = t.RHS(row)
	}

	return sol, nil
}

func scalarOne(v float64, tol Tolerance) bool {
	return tol.EqualRounded(v, 1, tol.SolutionDecimals)
}
