package cli

import (
	"github.com/spf13/cobra"

	"github.com/njchilds90/gonewton/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluate/find_root tools over HTTP",
		Long: `Start an HTTP tool server for agent frameworks.

  POST /tool   — execute a tool call
  GET  /schema — tool schema for agent registration
  GET  /health — health check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			srv := server.New(server.Config{
				Port:   cfg.Server.Port,
				Logger: GetLogger(cmd.Context()),
			})
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().Int("port", 0, "port to listen on (default 8080)")
	return cmd
}
