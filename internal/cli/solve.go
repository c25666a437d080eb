package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gonewton"
)

// NewSolveCommand creates the solve command.
func NewSolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "solve",
		Short: "Find a root with Newton-Raphson iteration",
		Long: `Run Newton-Raphson iteration on the configured polynomial until |f(x)| <= epsilon.

Without flags this solves 2x³+5x²+3x−7 = 0 starting from x0 = -100.`,
		Example: `  gonewton solve --coeffs=3,5,-7 --x0 0 --trace
  gonewton solve --coeffs=1,0,-2 --epsilon 1e-12 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			e := cfg.Expr()
			opts := cfg.SolveOptions()
			var steps []gonewton.Step
			var collect gonewton.Tracer
			if cfg.Trace {
				collect = gonewton.CollectTrace(&steps)
			}
			opts.Trace = gonewton.MultiTracer(collect, gonewton.SlogTracer(logger))

			logger.Debug("solving", "expr", e.String(), "x0", opts.X0, "epsilon", opts.Epsilon)
			res, err := gonewton.Solve(e, opts)
			if err != nil {
				return fmt.Errorf("no root for %s from x0=%g: %w", e, opts.X0, err)
			}

			return renderSolve(cmd.OutOrStdout(), cfg.Output, solveReport{
				Expression: e.String(),
				Root:       res.Root,
				Value:      res.Value,
				Derivative: res.Derivative,
				Steps:      res.Steps,
				Trace:      steps,
			})
		},
	}
}
