package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planboard/internal/gateway"
	"github.com/felixgeelhaar/planboard/internal/health"
	"github.com/felixgeelhaar/planboard/internal/log"
	"github.com/felixgeelhaar/planboard/internal/metrics"
	"github.com/felixgeelhaar/planboard/internal/schedule"
	"github.com/felixgeelhaar/planboard/internal/server"
	"github.com/felixgeelhaar/planboard/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the board API for browser clients",
	Long: `Start an HTTP server that fronts the scheduler service for browser boards.

Endpoints:
  POST /api/save-project - validate and save a project, then regenerate the graph
  POST /api/schedule     - compute a schedule and store the timeline
  GET  /api/timeline     - the stored timeline, projected, with tooltip placement
  GET  /api/refresh      - refresh token values for the graph and timeline views
  /health/live, /health/ready, /health/startup, /healthz - probes
  /metrics               - Prometheus metrics

The server shuts down gracefully on SIGTERM or SIGINT, draining open
connections for up to server.shutdown_timeout.

Examples:
  planboard serve
  planboard serve --address :8081`,
	RunE: runServe,
}

var serveAddress string

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "address to listen on (default from server.address)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a := current
	ctx := cmd.Context()
	info := version.GetInfo()
	cfg := a.cfg

	addr := cfg.Server.Address
	if serveAddress != "" {
		addr = serveAddress
	}

	// The server logs JSON unless the user chose a format
	logger := a.logger
	if logFormat == "" && cfg.Log.File == "" {
		lc := log.ServerConfig()
		lc.Level = log.ParseLevel(cfg.Log.Level)
		lc.ServiceVersion = info.Version
		logger = log.New(lc)
	}

	reg, m := metrics.NewRegistry()
	client := newClient(cfg, m, logger)

	probes := health.NewProbeManager(info.Version)
	probes.AddChecker(health.NewAPIChecker(client, cfg.API.BaseURL))

	srv := server.NewServer(server.Deps{
		Saver:     gateway.NewSync(client, a.tokens, m, logger),
		Scheduler: schedule.NewRequestor(client, a.tokens, m, logger),
		Timeline:  client,
		Tokens:    a.tokens,
		Probes:    probes,
		Metrics:   m,
		Gatherer:  reg,
		Logger:    logger,
	}, server.Config{
		Address:         addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		TooltipWidthPct: cfg.Board.TooltipWidthPct,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "planboard %s\n", info.Version)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s, scheduler service at %s\n", addr, cfg.API.BaseURL)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop the server\n")

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
