package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the match analysis as a JSON API",
	Long: `Start the HTTP API. Routes:

  GET /api/health
  GET /api/matches
  GET /api/matches/{id}/timeline|minutes|momentum|players|stats|palette|infographic
  GET /metrics

Unknown matches answer 404, upstream failures 502.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.svc, server.WithMetrics(a.metrics))
	return srv.ListenAndServe(ctx, addr)
}
