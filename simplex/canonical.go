package simplex

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/model"
)

// PriceOut returns the m×m matrix R such that R×t has zero reduced cost in
// every column of basis. basis names the basic variable of each constraint
// row in row order, and each of those columns must already be a unit
// vector below row 0. R is the identity with row 0 holding minus the
// reduced costs of the basic columns.
func PriceOut(t *model.Tableau, basis []string, tol Tolerance) (*mat.Dense, error) {
	r, c := t.Dims()
	if len(basis) != r-1 {
		return nil, errors.Wrapf(ErrInvalidTableau, "start basis has %d entries for %d constraint rows", len(basis), r-1)
	}

	rm := mat.NewDense(r, r, nil)
	for i := range r {
		rm.Set(i, i, 1)
	}
	seen := make(map[int]bool, len(basis))
	for k, label := range basis {
		row := k + 1
		col := t.Col(label)
		if col < 1 || col > c-2 {
			return nil, errors.Wrapf(ErrInvalidTableau, "start basis names unknown variable %q", label)
		}
		if seen[col] {
			return nil, errors.Wrapf(ErrInvalidTableau, "start basis names %q twice", label)
		}
		seen[col] = true
		for i := 1; i < r; i++ {
			want := 0.0
			if i == row {
				want = 1
			}
			if !tol.EqualRounded(t.M.At(i, col), want, tol.BasisDecimals) {
				return nil, &BasisNotFoundError{Row: row}
			}
		}
		rm.Set(0, row, -t.M.At(0, col))
	}

	return rm, nil
}

// Canonicalize returns PriceOut(t, basis)×t, the tableau in canonical form
// for basis.
func Canonicalize(t *model.Tableau, basis []string, tol Tolerance) (*model.Tableau, error) {
	rm, err := PriceOut(t, basis, tol)
	if err != nil {
		return nil, err
	}
	return Apply(t, rm, tol), nil
}
