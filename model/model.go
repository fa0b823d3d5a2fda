package model

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNeedsPhaseOne reports a model whose standard form has no slack basis.
var ErrNeedsPhaseOne = errors.New("simplex: model needs artificial variables for an initial basis")

// Sense is the relation of a constraint row to its rhs.
type Sense string

const (
	LE Sense = "<="
	GE Sense = ">="
	EQ Sense = "="
)

type Variable struct {
	Name    string
	Value   float64
	IsBasic bool
	IsSlack bool
}

// Model is a linear program
//
//	max (or min) c'x  s.t.  Ax (<=,>=,=) b, x >= 0
//
// before slack columns are added.
type Model struct {
	//V variables, filled after solving
	V []*Variable

	//C objective function coefficients
	C *mat.Dense

	//A constraints matrix
	A *mat.Dense

	//B constraints rhs
	B *mat.Dense

	Senses   []Sense
	Names    []string
	Maximize bool

	NumRows int
	NumCols int
}

func NewModel(numRows, numCols int) *Model {
	m := &Model{
		C:        newDense(1, numCols),
		A:        newDense(numRows, numCols),
		B:        newDense(numRows, 1),
		Senses:   make([]Sense, numRows),
		Names:    make([]string, numCols),
		Maximize: true,
		NumRows:  numRows,
		NumCols:  numCols,
	}
	for r := range numRows {
		m.Senses[r] = LE
	}
	for c := range numCols {
		m.Names[c] = fmt.Sprintf("x%d", c+1)
	}

	return m
}

func (m *Model) SetC(cVec []float64) error {
	if m.NumCols == 0 || len(cVec) != m.NumCols {
		return errors.New("mismatch number of variables")
	}

	m.C = mat.NewDense(1, m.NumCols, append([]float64(nil), cVec...))

	return nil
}

func (m *Model) SetA(aVec []float64) error {
	if len(aVec) == 0 || len(aVec) != m.NumCols*m.NumRows {
		return errors.New("mismatch number of variables and/or constraints")
	}

	m.A = mat.NewDense(m.NumRows, m.NumCols, append([]float64(nil), aVec...))

	return nil
}

func (m *Model) SetB(bVec []float64) error {
	if m.NumRows == 0 || len(bVec) != m.NumRows {
		return errors.New("mismatch number of constraints")
	}

	m.B = mat.NewDense(m.NumRows, 1, append([]float64(nil), bVec...))

	return nil
}

// AddRow appends the constraint rVec (sense) rhs.
func (m *Model) AddRow(rVec []float64, sense Sense, rhs float64) error {
	if m.NumCols == 0 || len(rVec) != m.NumCols {
		return errors.New("mismatch number of columns, i.e. wrong len of rVec")
	}

	m.A = growDense(m.A, m.NumRows+1, m.NumCols)
	m.A.SetRow(m.NumRows, rVec)

	m.B = growDense(m.B, m.NumRows+1, 1)
	m.B.Set(m.NumRows, 0, rhs)

	m.Senses = append(m.Senses, sense)
	m.NumRows++
	return nil
}

func (m *Model) MultiplyConstraint(row int, mul float64) error {
	if row < 0 || row >= m.NumRows {
		return errors.New("row does not exists")
	}

	for col := range m.NumCols {
		m.A.Set(row, col, m.A.At(row, col)*mul)
	}
	m.B.Set(row, 0, m.B.At(row, 0)*mul)
	if mul < 0 {
		switch m.Senses[row] {
		case LE:
			m.Senses[row] = GE
		case GE:
			m.Senses[row] = LE
		}
	}
	return nil
}

// Tableau returns the canonical tableau of the model: one slack per row,
// slack columns forming the initial basis. Slacks are named after the
// structural variables, x{n+1}..x{n+m}.
func (m *Model) Tableau() (*Tableau, error) {
	for r := range m.NumRows {
		if m.Senses[r] != LE {
			return nil, errors.Wrapf(ErrNeedsPhaseOne, "row %d has sense %s", r, m.Senses[r])
		}
		if m.B.At(r, 0) < 0 {
			return nil, errors.Wrapf(ErrNeedsPhaseOne, "row %d has negative rhs %v", r, m.B.At(r, 0))
		}
	}

	rows, cols := m.NumRows+1, m.NumCols+m.NumRows+2
	t := mat.NewDense(rows, cols, nil)
	t.Set(0, 0, 1)
	sign := -1.0
	if !m.Maximize {
		sign = 1
	}
	for c := range m.NumCols {
		t.Set(0, c+1, sign*m.C.At(0, c))
	}
	for r := range m.NumRows {
		for c := range m.NumCols {
			t.Set(r+1, c+1, m.A.At(r, c))
		}
		t.Set(r+1, m.NumCols+1+r, 1)
		t.Set(r+1, cols-1, m.B.At(r, 0))
	}

	labels := make([]string, 0, cols)
	labels = append(labels, ZLabel)
	labels = append(labels, m.Names...)
	for r := range m.NumRows {
		labels = append(labels, fmt.Sprintf("x%d", m.NumCols+r+1))
	}
	labels = append(labels, RHSLabel)

	return FromDense(t, labels)
}

// Objective maps the tableau Z value back to the model's objective sense.
func (m *Model) Objective(z float64) float64 {
	if m.Maximize {
		return z
	}
	return -z
}

// UpdateVariablesValues fills V from a solution vector over the tableau
// variable columns (structural variables followed by slacks).
func (m *Model) UpdateVariablesValues(values []float64, basis []string) {
	basic := make(map[string]bool, len(basis))
	for _, b := range basis {
		basic[b] = true
	}
	m.V = make([]*Variable, len(values))
	for i, v := range values {
		name := fmt.Sprintf("x%d", i+1)
		if i < len(m.Names) {
			name = m.Names[i]
		}
		m.V[i] = &Variable{
			Name:    name,
			Value:   v,
			IsBasic: basic[name],
			IsSlack: i >= m.NumCols,
		}
	}
}

func newDense(r, c int) *mat.Dense {
	if r == 0 || c == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(r, c, nil)
}

// growDense returns an r×c copy of d, padded with zeros.
func growDense(d *mat.Dense, r, c int) *mat.Dense {
	rows, cols := d.Dims()
	if rows == 0 || cols == 0 {
		return newDense(r, c)
	}
	return mat.DenseCopyOf(d.Grow(r-rows, c-cols))
}
