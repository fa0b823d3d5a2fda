package main

import (
	goflag "flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
	"q.log/tableau/display"
	"q.log/tableau/instance"
	"q.log/tableau/simplex"
)

func main() {
	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	defer klog.Flush()

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:          "tableau",
		Short:        "Solve linear programs with the tableau simplex method",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "YAML file with default flag values")
	root.AddCommand(newSolveCommand(out, v))
	return root
}

func newSolveCommand(out io.Writer, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Run the simplex method on an instance (.mps, .yaml, .yml or .json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, v); err != nil {
				return err
			}
			return runSolve(out, args[0], v)
		},
	}
	flags := cmd.Flags()
	flags.Int("max-iter", simplex.DefaultMaxIterations, "maximum number of pivots")
	flags.Float64("epsilon", simplex.DefaultEpsilon, "values smaller than this are treated as zero")
	flags.Int("basis-decimals", simplex.DefaultBasisDecimals, "rounding used when matching basis columns")
	flags.Int("solution-decimals", simplex.DefaultSolutionDecimals, "rounding used when reading basic values")
	flags.Int("precision", 6, "significant digits printed")
	flags.Bool("transitions", false, "print the transition matrix of every pivot")
	flags.Bool("quiet", false, "print only the final solution")
	return cmd
}

func loadConfig(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix("simplex")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
	}
	return nil
}

func runSolve(out io.Writer, filename string, v *viper.Viper) error {
	inst, err := instance.NewReader(filename).Read()
	if err != nil {
		return err
	}

	printer := display.NewPrinter(out)
	printer.Precision = v.GetInt("precision")
	printer.Transitions = v.GetBool("transitions")
	opts := []simplex.Option{
		simplex.WithMaxIterations(v.GetInt("max-iter")),
		simplex.WithTolerance(simplex.Tolerance{
			Epsilon:          v.GetFloat64("epsilon"),
			BasisDecimals:    v.GetInt("basis-decimals"),
			SolutionDecimals: v.GetInt("solution-decimals"),
		}),
	}
	if len(inst.Basis) > 0 {
		opts = append(opts, simplex.WithStartBasis(inst.Basis...))
	}
	if !v.GetBool("quiet") {
		opts = append(opts, simplex.WithObserver(func(step simplex.Step) {
			_ = printer.PrintStep(step)
		}))
	}

	res, err := simplex.Solve(inst.Tableau, opts...)
	if err != nil {
		if perr := printer.PrintFailure(res, err); perr != nil {
			klog.Warningf("printing failed run: %v", perr)
		}
		return errors.Wrapf(err, "solving %s", filename)
	}

	prec := v.GetInt("precision")
	fmt.Fprintf(out, "status: %s after %d iterations\n", res.Status, res.Iterations)
	if inst.Model == nil {
		fmt.Fprintf(out, "Z = %s\n", strconv.FormatFloat(res.Solution.Objective, 'g', prec, 64))
		return nil
	}
	inst.Model.UpdateVariablesValues(res.Solution.Values, res.Basis)
	for _, x := range inst.Model.V {
		if x.IsSlack {
			continue
		}
		fmt.Fprintf(out, "%s = %s\n", x.Name, strconv.FormatFloat(x.Value, 'g', prec, 64))
	}
	fmt.Fprintf(out, "objective = %s\n", strconv.FormatFloat(inst.Model.Objective(res.Solution.Objective), 'g', prec, 64))
	return nil
}
