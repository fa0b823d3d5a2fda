// Package simplex implements the tableau form of the primal simplex method.
//
// A tableau has the objective (reduced cost) row first, a Z column first and
// the right-hand side last:
//
//	Z   x1   x2  ...  RHS
//	1  -c1  -c2  ...   z
//	0  a11  a12  ...   b1
//	...
//
// Each iteration identifies the basis, tests optimality, picks the entering
// column (most negative reduced cost) and exiting row (minimum ratio), and
// replaces the tableau by T×tableau where T is the transition matrix of the
// pivot. Solve stops when no reduced cost is negative or the iteration cap is
// reached; every failure is a *SolveError that unwraps to ErrInvalidTableau,
// ErrUnbounded, ErrSingularPivot or ErrIterationLimit.
//
// The starting tableau must already hold an identity basis; see
// model.Model.Tableau for building one from a problem with <= constraints.
package simplex
