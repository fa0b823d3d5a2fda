package simplex

import (
	"fmt"

	"github.com/pkg/errors"
	"q.log/tableau/model"
)

var (
	// ErrInvalidTableau reports a malformed tableau or one whose basis
	// cannot be identified.
	ErrInvalidTableau = model.ErrInvalidTableau
	// ErrUnbounded reports an entering column with no positive coefficient
	// in any constraint row.
	ErrUnbounded = errors.New("simplex: problem is unbounded")
	// ErrSingularPivot reports a zero or near-zero pivot element.
	ErrSingularPivot = errors.New("simplex: singular pivot")
	// ErrIterationLimit reports a tableau still not optimal at the cap.
	ErrIterationLimit = errors.New("simplex: iteration limit exceeded")
	// ErrNoEntering reports that no reduced cost is negative.
	ErrNoEntering = errors.New("simplex: no entering variable, tableau is optimal")
	// ErrInvalidOption reports an out-of-range option value.
	ErrInvalidOption = errors.New("simplex: invalid option")
)

// BasisNotFoundError reports a row with no column equal to its unit
// vector, even after rounding.
type BasisNotFoundError struct {
	Row int
}

func (e *BasisNotFoundError) Error() string {
	return fmt.Sprintf("simplex: no basic variable for row %d", e.Row)
}

// Is makes a BasisNotFoundError match ErrInvalidTableau.
func (e *BasisNotFoundError) Is(target error) bool {
	return target == ErrInvalidTableau
}

// SolveError is returned by Solve on every failed run. Tableau is the last
// valid tableau, Iteration the number of pivots applied to reach it.
type SolveError struct {
	Status    Status
	Iteration int
	Tableau   *model.Tableau
	Err       error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("simplex: %s at iteration %d: %v", e.Status, e.Iteration, e.Err)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}
