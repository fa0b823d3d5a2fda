package instance

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
	"q.log/tableau/model"
)

// ErrUnsupported reports an instance the tableau engine cannot start from.
var ErrUnsupported = errors.New("instance: unsupported instance")

// Instance is a starting tableau and, when it was built from a problem
// rather than given directly, the problem itself. Basis is set when the
// tableau still needs its basic columns priced out of row 0.
type Instance struct {
	Model   *model.Model
	Tableau *model.Tableau
	Basis   []string
}

// Reader reads an instance file. The format is chosen by extension: .mps
// files go through glpk, .yaml, .yml and .json files are parsed by Parse.
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// Read returns the instance held by the file.
func (r *Reader) Read() (*Instance, error) {
	switch strings.ToLower(filepath.Ext(r.filename)) {
	case ".mps":
		m, err := r.ConstructModelFromFile()
		if err != nil {
			return nil, err
		}
		return fromModel(m)
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(r.filename)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", r.filename)
		}
		inst, err := Parse(data)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", r.filename)
		}
		return inst, nil
	}
	return nil, errors.Wrapf(ErrUnsupported, "unknown file extension %q", filepath.Ext(r.filename))
}

// ConstructModelFromFile reads a fixed MPS file and returns the model with
// every column bound turned into a constraint row. Rows of the form
// a'x >= b with b <= 0 are negated into <= rows.
func (r *Reader) ConstructModelFromFile() (*model.Model, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, errors.Wrapf(err, "reading MPS file %s", r.filename)
	}

	m := model.NewModel(0, lp.NumCols())
	m.Maximize = lp.ObjDir() == glpk.MAX
	klog.V(2).Infof("instance: %s has %d rows and %d columns", r.filename, lp.NumRows(), lp.NumCols())

	//populate obj function
	var cVec []float64
	for c := range lp.NumCols() + 1 {
		if c == 0 {
			continue
		}
		cVec = append(cVec, lp.ObjCoef(c))
		if name := lp.ColName(c); name != "" {
			m.Names[c-1] = name
		}
	}
	if err := m.SetC(cVec); err != nil {
		return nil, err
	}

	//populate constraints
	for i := range lp.NumRows() + 1 {
		if i == 0 {
			continue
		}
		rowVec := make([]float64, lp.NumCols())
		idxs, row := lp.MatRow(i)
		for k, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = row[k]
		}

		lb, ub := lp.RowLB(i), lp.RowUB(i)
		var err error
		switch {
		case lb == -math.MaxFloat64 && ub == math.MaxFloat64:
			// free row, no constraint
		case lb == -math.MaxFloat64:
			err = m.AddRow(rowVec, model.LE, ub)
		case ub == math.MaxFloat64:
			err = m.AddRow(rowVec, model.GE, lb)
		case lb == ub:
			err = m.AddRow(rowVec, model.EQ, lb)
		default:
			if err = m.AddRow(rowVec, model.LE, ub); err == nil {
				err = m.AddRow(rowVec, model.GE, lb)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	for c := range lp.NumCols() {
		lb, ub := lp.ColLB(c+1), lp.ColUB(c+1)
		if lb < 0 {
			return nil, errors.Wrapf(ErrUnsupported, "column %s has lower bound %v", m.Names[c], lb)
		}
		rowVec := make([]float64, lp.NumCols())
		rowVec[c] = 1
		if lb > 0 {
			if err := m.AddRow(rowVec, model.GE, lb); err != nil {
				return nil, err
			}
		}
		if ub != math.MaxFloat64 {
			if err := m.AddRow(rowVec, model.LE, ub); err != nil {
				return nil, err
			}
		}
	}

	for i := range m.NumRows {
		if m.Senses[i] == model.GE && m.B.At(i, 0) <= 0 {
			if err := m.MultiplyConstraint(i, -1); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func fromModel(m *model.Model) (*Instance, error) {
	t, err := m.Tableau()
	if err != nil {
		return nil, err
	}
	return &Instance{Model: m, Tableau: t}, nil
}
