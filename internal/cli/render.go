package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/gonewton"
	"github.com/njchilds90/gonewton/internal/config"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the Horner-form expression",
		Long:  `Print the expression tree built from the configured coefficients as text and LaTeX.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			e := cfg.Expr()
			out := cmd.OutOrStdout()

			if cfg.Output == config.OutputJSON {
				return renderJSON(out, map[string]interface{}{
					"string": e.String(),
					"latex":  e.LaTeX(),
					"size":   gonewton.Size(e),
					"depth":  gonewton.Depth(e),
				})
			}
			_, _ = fmt.Fprintf(out, "text:  %s\n", e)
			_, _ = fmt.Fprintf(out, "latex: %s\n", e.LaTeX())
			_, _ = fmt.Fprintf(out, "nodes: %d, depth: %d\n", gonewton.Size(e), gonewton.Depth(e))
			return nil
		},
	}
}
