package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	// ZLabel names the objective value column.
	ZLabel = "Z"
	// RHSLabel names the right-hand-side column.
	RHSLabel = "RHS"
)

// ErrInvalidTableau reports a tableau that is not in canonical form.
var ErrInvalidTableau = errors.New("simplex: invalid tableau")

// Tableau is a dense simplex tableau with its column labels. Row 0 holds the
// reduced costs, column 0 is the Z column and the last column is the RHS.
type Tableau struct {
	M      *mat.Dense
	Labels []string
}

// NewTableau validates rows and labels and returns the tableau.
func NewTableau(rows [][]float64, labels []string) (*Tableau, error) {
	if len(rows) < 2 {
		return nil, errors.Wrap(ErrInvalidTableau, "need an objective row and at least one constraint row")
	}
	n := len(rows[0])
	data := make([]float64, 0, len(rows)*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, errors.Wrapf(ErrInvalidTableau, "row %d has %d entries, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}
	if n < 3 {
		return nil, errors.Wrap(ErrInvalidTableau, "need Z, at least one variable and RHS columns")
	}

	return FromDense(mat.NewDense(len(rows), n, data), labels)
}

// FromDense wraps an existing matrix. The matrix is copied.
func FromDense(m mat.Matrix, labels []string) (*Tableau, error) {
	t := &Tableau{
		M:      mat.DenseCopyOf(m),
		Labels: append([]string(nil), labels...),
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks the shape, labels and Z column, and that every constraint
// row has a non-negative RHS so the starting basic solution is feasible.
func (t *Tableau) Validate() error {
	if t == nil || t.M == nil {
		return errors.Wrap(ErrInvalidTableau, "nil tableau")
	}
	r, c := t.M.Dims()
	if r < 2 || c < 3 {
		return errors.Wrapf(ErrInvalidTableau, "shape %dx%d is too small", r, c)
	}
	if len(t.Labels) != c {
		return errors.Wrapf(ErrInvalidTableau, "%d labels for %d columns", len(t.Labels), c)
	}
	seen := make(map[string]struct{}, c)
	for _, l := range t.Labels {
		if _, ok := seen[l]; ok {
			return errors.Wrapf(ErrInvalidTableau, "duplicate label %q", l)
		}
		seen[l] = struct{}{}
	}
	for i := range r {
		for j := range c {
			v := t.M.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrInvalidTableau, "entry (%d,%d) is %v", i, j, v)
			}
		}
		want := 0.0
		if i == 0 {
			want = 1
		}
		if t.M.At(i, 0) != want {
			return errors.Wrapf(ErrInvalidTableau, "Z column must be e_0, row %d holds %v", i, t.M.At(i, 0))
		}
		if i > 0 && t.M.At(i, c-1) < 0 {
			return errors.Wrapf(ErrInvalidTableau, "row %d has negative RHS %v", i, t.M.At(i, c-1))
		}
	}

	return nil
}

// Dims returns the number of rows and columns.
func (t *Tableau) Dims() (int, int) {
	return t.M.Dims()
}

// RHS returns the right-hand-side entry of row i.
func (t *Tableau) RHS(i int) float64 {
	_, c := t.M.Dims()
	return t.M.At(i, c-1)
}

// Col returns the index of label, or -1.
func (t *Tableau) Col(label string) int {
	for j, l := range t.Labels {
		if l == label {
			return j
		}
	}
	return -1
}

// Variables returns the labels of every column except Z and RHS.
func (t *Tableau) Variables() []string {
	return t.Labels[1 : len(t.Labels)-1]
}

// WithMatrix returns a tableau sharing the labels and holding m.
func (t *Tableau) WithMatrix(m *mat.Dense) *Tableau {
	return &Tableau{M: m, Labels: t.Labels}
}

// Clone returns a deep copy.
func (t *Tableau) Clone() *Tableau {
	return &Tableau{
		M:      mat.DenseCopyOf(t.M),
		Labels: append([]string(nil), t.Labels...),
	}
}

// Rows returns the tableau as a slice of rows.
func (t *Tableau) Rows() [][]float64 {
	r, _ := t.M.Dims()
	rows := make([][]float64, r)
	for i := range r {
		rows[i] = mat.Row(nil, i, t.M)
	}
	return rows
}
