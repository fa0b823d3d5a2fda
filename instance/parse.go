package instance

import (
	"strconv"

	"github.com/pkg/errors"
	"q.log/tableau/model"
	"sigs.k8s.io/yaml"
)

// File is the YAML/JSON layout of an instance. Either Tableau (with Labels)
// or Objective (with Constraints, or A and B) must be set.
//
//	labels: [Z, x1, x2, x3, RHS]
//	tableau:
//	  - [1, -3, -2, 0, 0]
//	  - [0,  1,  1, 1, 4]
//
// or
//
//	maximize: true
//	objective: [3, 2]
//	constraints:
//	  - coefficients: [1, 1]
//	    rhs: 4
//
// or
//
//	objective: [3, 2]
//	a: [[1, 1], [1, 3]]
//	b: [4, 6]
//
// Basis optionally names the basic variable of each constraint row of a
// tableau whose row 0 still has to be priced out.
type File struct {
	Labels  []string    `json:"labels,omitempty"`
	Tableau [][]float64 `json:"tableau,omitempty"`
	Basis   []string    `json:"basis,omitempty"`

	Maximize    *bool        `json:"maximize,omitempty"`
	Variables   []string     `json:"variables,omitempty"`
	Objective   []float64    `json:"objective,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`

	A      [][]float64   `json:"a,omitempty"`
	B      []float64     `json:"b,omitempty"`
	Senses []model.Sense `json:"senses,omitempty"`
}

type Constraint struct {
	Coefficients []float64   `json:"coefficients"`
	Sense        model.Sense `json:"sense,omitempty"`
	RHS          float64     `json:"rhs"`
}

// Parse decodes a YAML or JSON instance.
func Parse(data []byte) (*Instance, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding instance")
	}
	return f.Instance()
}

// Instance builds the starting tableau described by f.
func (f *File) Instance() (*Instance, error) {
	switch {
	case len(f.Tableau) > 0 && len(f.Objective) > 0:
		return nil, errors.Wrap(ErrUnsupported, "both tableau and objective given")
	case len(f.Tableau) > 0:
		labels := f.Labels
		if len(labels) == 0 {
			labels = DefaultLabels(len(f.Tableau[0]))
		}
		t, err := model.NewTableau(f.Tableau, labels)
		if err != nil {
			return nil, err
		}
		return &Instance{Tableau: t, Basis: f.Basis}, nil
	case len(f.Basis) > 0:
		return nil, errors.Wrap(ErrUnsupported, "basis given without a tableau")
	case len(f.Objective) > 0:
		m, err := f.Model()
		if err != nil {
			return nil, err
		}
		return fromModel(m)
	}
	return nil, errors.Wrap(ErrUnsupported, "neither tableau nor objective given")
}

// Model returns the problem described by f.
func (f *File) Model() (*model.Model, error) {
	n := len(f.Objective)
	var m *model.Model
	switch {
	case len(f.A) > 0 && len(f.Constraints) > 0:
		return nil, errors.Wrap(ErrUnsupported, "both a and constraints given")
	case len(f.A) > 0 || len(f.B) > 0:
		var err error
		if m, err = f.denseModel(n); err != nil {
			return nil, err
		}
	default:
		m = model.NewModel(0, n)
	}
	if f.Maximize != nil {
		m.Maximize = *f.Maximize
	}
	if len(f.Variables) > 0 {
		if len(f.Variables) != n {
			return nil, errors.Errorf("%d variable names for %d objective coefficients", len(f.Variables), n)
		}
		copy(m.Names, f.Variables)
	}
	if err := m.SetC(f.Objective); err != nil {
		return nil, err
	}
	for i, c := range f.Constraints {
		sense, err := checkSense(c.Sense)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i)
		}
		if err := m.AddRow(c.Coefficients, sense, c.RHS); err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i)
		}
	}
	return m, nil
}

// denseModel builds the rows of the model from A, B and Senses.
func (f *File) denseModel(n int) (*model.Model, error) {
	m := model.NewModel(len(f.A), n)
	a := make([]float64, 0, len(f.A)*n)
	for i, row := range f.A {
		if len(row) != n {
			return nil, errors.Errorf("row %d of a has %d coefficients for %d variables", i, len(row), n)
		}
		a = append(a, row...)
	}
	if err := m.SetA(a); err != nil {
		return nil, errors.Wrap(err, "a")
	}
	if err := m.SetB(f.B); err != nil {
		return nil, errors.Wrap(err, "b")
	}
	if len(f.Senses) > 0 && len(f.Senses) != len(f.A) {
		return nil, errors.Errorf("%d senses for %d rows", len(f.Senses), len(f.A))
	}
	for i, s := range f.Senses {
		sense, err := checkSense(s)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		m.Senses[i] = sense
	}
	return m, nil
}

// checkSense defaults an empty sense to <=.
func checkSense(s model.Sense) (model.Sense, error) {
	switch s {
	case "":
		return model.LE, nil
	case model.LE, model.GE, model.EQ:
		return s, nil
	}
	return "", errors.Errorf("unknown sense %q", s)
}

// DefaultLabels returns Z, x1..x{n-2}, RHS.
func DefaultLabels(n int) []string {
	labels := make([]string, n)
	for j := range labels {
		switch j {
		case 0:
			labels[j] = model.ZLabel
		case n - 1:
			labels[j] = model.RHSLabel
		default:
			labels[j] = "x" + strconv.Itoa(j)
		}
	}
	return labels
}
