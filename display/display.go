// Package display prints simplex runs to a terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"q.log/tableau/simplex"
)

// Printer writes steps of a run. Precision is passed to strconv.FormatFloat;
// -1 prints the shortest exact representation.
type Printer struct {
	Out         io.Writer
	Precision   int
	Transitions bool
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out, Precision: 6}
}

// PrintStep prints the tableau of a step with its basis, BFS and Z, and the
// chosen pivot when there is one.
func (p *Printer) PrintStep(step simplex.Step) error {
	fmt.Fprintf(p.Out, "tableau %d\n", step.Iteration+1)
	if err := p.PrintTable(step); err != nil {
		return err
	}
	fmt.Fprintf(p.Out, "BFS: [%s]\n", p.join(step.Solution.Values))
	fmt.Fprintf(p.Out, "Z: %s\n", p.format(step.Solution.Objective))
	if step.Pivot != nil {
		fmt.Fprintf(p.Out, "Entering: %s\n", step.Pivot.Entering)
		fmt.Fprintf(p.Out, "Exiting: %s\n", step.Pivot.Exiting)
	}
	if p.Transitions && step.Transition != nil {
		PrintMatrix(p.Out, "T", step.Transition)
	}
	fmt.Fprintln(p.Out)
	return nil
}

// PrintTable prints the tableau with one leading column naming the basic
// variable of each row.
func (p *Printer) PrintTable(step simplex.Step) error {
	w := tabwriter.NewWriter(p.Out, 0, 4, 2, ' ', tabwriter.AlignRight)
	t := step.Tableau
	fmt.Fprintf(w, "\t%s\t\n", strings.Join(t.Labels, "\t"))
	r, _ := t.Dims()
	for i := range r {
		basic := ""
		if i < len(step.Basis) {
			basic = step.Basis[i]
		}
		fmt.Fprintf(w, "%s\t%s\t\n", basic, strings.Join(p.formatAll(mat.Row(nil, i, t.M)), "\t"))
	}
	return w.Flush()
}

// PrintResult prints every step of res followed by its status.
func (p *Printer) PrintResult(res *simplex.Result) error {
	for _, step := range res.Steps {
		if err := p.PrintStep(step); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(p.Out, "status: %s after %d iterations\n", res.Status, res.Iterations)
	return err
}

// PrintFailure prints the status of a failed run and the tableau it stopped
// on, labelled with the basis of the last recorded step when that step holds
// the same tableau.
func (p *Printer) PrintFailure(res *simplex.Result, err error) error {
	fmt.Fprintf(p.Out, "status: %s after %d iterations\n", res.Status, res.Iterations)
	var se *simplex.SolveError
	if !errors.As(err, &se) || se.Tableau == nil {
		return nil
	}
	step := simplex.Step{Iteration: se.Iteration, Tableau: se.Tableau}
	if n := len(res.Steps); n > 0 && res.Steps[n-1].Tableau == se.Tableau {
		step.Basis = res.Steps[n-1].Basis
	}
	fmt.Fprintf(p.Out, "stopped on tableau %d\n", se.Iteration+1)
	return p.PrintTable(step)
}

// PrintMatrix prints m under name in gonum's formatted layout.
func PrintMatrix(out io.Writer, name string, m mat.Matrix) {
	f := mat.Formatted(m, mat.Prefix(strings.Repeat(" ", len(name)+3)), mat.Squeeze())
	fmt.Fprintf(out, "%s = %v\n", name, f)
}

func (p *Printer) format(v float64) string {
	return strconv.FormatFloat(v, 'g', p.Precision, 64)
}

func (p *Printer) formatAll(vs []float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = p.format(v)
	}
	return out
}

func (p *Printer) join(vs []float64) string {
	return strings.Join(p.formatAll(vs), ", ")
}
