package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfluff/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parser over HTTP",
		Long: `Start an HTTP service exposing the parser.

Routes:
  POST /parse                    {"sql": "...", "dialect": "sqlite"}
  GET  /dialects
  GET  /grammar/{dialect}/{name}
  GET  /healthz
  GET  /metrics                  Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			indent, err := cc.Cfg.IndentConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Addr:            cc.Cfg.Server.Addr,
				LRUSize:         cc.Cfg.Server.LRUSize,
				ShutdownTimeout: cc.Cfg.Server.ShutdownTimeout,
				DefaultDialect:  cc.Cfg.Dialect,
				Indent:          indent,
				Logger:          cc.Logger,
			})
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	cmd.Flags().Int("lru-size", 0, "Parse results kept in memory (default 256)")
	return cmd
}
