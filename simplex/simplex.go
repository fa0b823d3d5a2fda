package simplex

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
	"q.log/tableau/model"
)

// Status is the state of a run.
type Status int

const (
	Running Status = iota
	Optimal
	Unbounded
	IterationLimitExceeded
	InvalidTableau
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Optimal:
		return "optimal"
	case Unbounded:
		return "unbounded"
	case IterationLimitExceeded:
		return "iteration limit exceeded"
	case InvalidTableau:
		return "invalid tableau"
	}
	return "unknown"
}

// Step records one visited tableau. Pivot and Transition are nil for the
// last step of a run.
type Step struct {
	Iteration  int
	Tableau    *model.Tableau
	Basis      []string
	Solution   Solution
	Pivot      *Pivot
	Transition *mat.Dense
}

// Result is the history of a run. On success Basis and Solution describe
// the optimal tableau.
type Result struct {
	Status     Status
	Iterations int
	Steps      []Step
	Basis      []string
	Solution   Solution
}

// Final returns the last tableau visited.
func (r *Result) Final() *model.Tableau {
	if len(r.Steps) == 0 {
		return nil
	}
	return r.Steps[len(r.Steps)-1].Tableau
}

// Tableaus returns every tableau visited, in order.
func (r *Result) Tableaus() []*model.Tableau {
	out := make([]*model.Tableau, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Tableau
	}
	return out
}

// Transitions returns the transition matrices applied, in order.
func (r *Result) Transitions() []*mat.Dense {
	var out []*mat.Dense
	for _, s := range r.Steps {
		if s.Transition != nil {
			out = append(out, s.Transition)
		}
	}
	return out
}

// Solve runs the tableau simplex method from t, which must already be in
// canonical form unless a start basis is given with WithStartBasis. t is
// not modified. The returned Result is never nil and
// holds the steps taken so far; failures are reported as *SolveError.
func Solve(t *model.Tableau, opts ...Option) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	res := &Result{Status: Running}
	if o.MaxIterations < 0 {
		return res, errors.Wrapf(ErrInvalidOption, "max iterations %d", o.MaxIterations)
	}
	if err := o.Tolerance.validate(); err != nil {
		return res, err
	}
	if err := t.Validate(); err != nil {
		res.Status = InvalidTableau
		return res, &SolveError{Status: InvalidTableau, Tableau: t, Err: err}
	}

	s := &solver{opts: o, res: res}
	start := t.Clone()
	if len(o.StartBasis) > 0 {
		var err error
		if start, err = Canonicalize(t, o.StartBasis, o.Tolerance); err != nil {
			return res, s.fail(InvalidTableau, 0, t, err)
		}
		klog.V(2).Infof("simplex: priced out start basis %v, Z = %v", o.StartBasis, start.RHS(0))
	}
	return res, s.run(start)
}

type solver struct {
	opts Options
	res  *Result
}

func (s *solver) run(current *model.Tableau) error {
	tol := s.opts.Tolerance
	for iter := 0; ; iter++ {
		basis, err := BasicVariables(current, tol)
		if err != nil {
			return s.fail(InvalidTableau, iter, current, err)
		}
		sol, err := Extract(current, basis, tol)
		if err != nil {
			return s.fail(InvalidTableau, iter, current, err)
		}
		step := Step{Iteration: iter, Tableau: current, Basis: basis, Solution: sol}

		if !NotOptimal(current) {
			s.record(step)
			s.res.Status = Optimal
			s.res.Iterations = iter
			s.res.Basis = basis
			s.res.Solution = sol
			klog.V(1).Infof("simplex: optimal after %d iterations, Z = %v", iter, sol.Objective)
			return nil
		}
		if iter >= s.opts.MaxIterations {
			s.record(step)
			return s.fail(IterationLimitExceeded, iter, current,
				errors.Wrapf(ErrIterationLimit, "not optimal after %d iterations", iter))
		}

		pv, err := EnterExit(current, basis)
		if err != nil {
			s.record(step)
			status := InvalidTableau
			if errors.Is(err, ErrUnbounded) {
				status = Unbounded
			}
			return s.fail(status, iter, current, err)
		}
		tm, err := Transition(current, pv.Row, pv.Col, tol)
		if err != nil {
			s.record(step)
			return s.fail(InvalidTableau, iter, current, err)
		}
		step.Pivot = &pv
		step.Transition = tm
		s.record(step)
		klog.V(2).Infof("simplex: iteration %d: %s enters, %s leaves (row %d, pivot %v, ratio %v, Z = %v)",
			iter, pv.Entering, pv.Exiting, pv.Row, pv.Element, pv.Ratio, sol.Objective)

		current = Apply(current, tm, tol)
	}
}

func (s *solver) record(step Step) {
	s.res.Steps = append(s.res.Steps, step)
	if s.opts.Observer != nil {
		s.opts.Observer(step)
	}
}

func (s *solver) fail(status Status, iter int, t *model.Tableau, err error) error {
	s.res.Status = status
	s.res.Iterations = iter
	klog.V(1).Infof("simplex: %s at iteration %d: %v", status, iter, err)
	return &SolveError{Status: status, Iteration: iter, Tableau: t, Err: err}
}
