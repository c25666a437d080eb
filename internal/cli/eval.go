package cli

import (
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/njchilds90/gonewton"
)

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	var (
		points []float64
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the polynomial and its derivative",
		Long: `Evaluate the configured polynomial and its exact derivative at one or more points.

With --check the derivative is compared against a central finite difference.`,
		Example: `  gonewton eval --coeffs=3,5,-7 --at=0,1,-2.5
  gonewton eval --at=1.5 --check -o table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			e := cfg.Expr()
			f := func(x float64) float64 { return gonewton.Value(e, x) }
			rows := make([]evalReport, 0, len(points))
			for _, x := range points {
				d := gonewton.Evaluate(e, x)
				row := evalReport{X: x, Value: d.Value, Derivative: d.Derivative}
				if check {
					numeric := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central})
					row.Numeric = &numeric
					if !scalar.EqualWithinAbsOrRel(numeric, d.Derivative, 1e-4, 1e-6) {
						logger.Warn("derivative disagrees with finite difference",
							"x", x, "exact", d.Derivative, "numeric", numeric)
					}
				}
				rows = append(rows, row)
			}
			return renderEval(cmd.OutOrStdout(), cfg.Output, e.String(), rows)
		},
	}

	cmd.Flags().Float64SliceVar(&points, "at", []float64{0}, "points to evaluate at (e.g. --at=0,1.5,-2)")
	cmd.Flags().BoolVar(&check, "check", false, "cross-check the derivative with a finite difference")
	return cmd
}
