package simplex

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	DefaultMaxIterations    = 10
	DefaultEpsilon          = 1e-10
	DefaultBasisDecimals    = 6
	DefaultSolutionDecimals = 5
)

// Tolerance groups every floating point comparison the engine makes.
type Tolerance struct {
	// Epsilon snaps post-pivot entries to zero and bounds the pivot element.
	Epsilon float64
	// BasisDecimals is the rounding used by the fallback unit-vector pass.
	BasisDecimals int
	// SolutionDecimals is the rounding used to locate a basic column's row.
	SolutionDecimals int
}

// DefaultTolerance returns the default tolerances.
func DefaultTolerance() Tolerance {
	return Tolerance{
		Epsilon:          DefaultEpsilon,
		BasisDecimals:    DefaultBasisDecimals,
		SolutionDecimals: DefaultSolutionDecimals,
	}
}

// IsZero reports whether |v| < Epsilon.
func (t Tolerance) IsZero(v float64) bool {
	return math.Abs(v) < t.Epsilon
}

// Snap returns 0 for values within Epsilon of zero and v otherwise.
func (t Tolerance) Snap(v float64) float64 {
	if t.IsZero(v) {
		return 0
	}
	return v
}

// EqualRounded compares a and b after rounding both to prec decimals.
func (t Tolerance) EqualRounded(a, b float64, prec int) bool {
	return scalar.Round(a, prec) == scalar.Round(b, prec)
}

func (t Tolerance) validate() error {
	if t.Epsilon < 0 || math.IsNaN(t.Epsilon) {
		return errors.Wrapf(ErrInvalidOption, "epsilon %v", t.Epsilon)
	}
	if t.BasisDecimals < 0 || t.SolutionDecimals < 0 {
		return errors.Wrapf(ErrInvalidOption, "decimals %d/%d", t.BasisDecimals, t.SolutionDecimals)
	}
	return nil
}

// Options configures Solve.
type Options struct {
	MaxIterations int
	Tolerance     Tolerance
	// StartBasis, when set, names the basic variable of each constraint
	// row; Solve prices those columns out of row 0 before the first step.
	StartBasis []string
	// Observer, when set, receives every step as soon as it is recorded.
	Observer func(Step)
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the options Solve uses when none are given.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance(),
	}
}

// WithMaxIterations caps the number of pivots.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithTolerance sets the zero-snapping, basis and solution tolerances.
func WithTolerance(t Tolerance) Option {
	return func(o *Options) { o.Tolerance = t }
}

// WithStartBasis makes Solve canonicalize the input for basis first.
func WithStartBasis(basis ...string) Option {
	return func(o *Options) { o.StartBasis = basis }
}

// WithObserver registers fn to receive each step.
func WithObserver(fn func(Step)) Option {
	return func(o *Options) { o.Observer = fn }
}
