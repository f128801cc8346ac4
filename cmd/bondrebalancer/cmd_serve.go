package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/bond-rebalancer/internal/engine"
	"github.com/opsxjacky/bond-rebalancer/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rebalancer over HTTP",
	Long: `Start the HTTP API:
  POST /api/bond-rebalance        rebalance one portfolio
  POST /api/bond-rebalance/batch  rebalance several portfolios
  GET  /api/strategies            list strategies
  GET  /health                    liveness
  GET  /metrics                   Prometheus metrics`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	port := appConfig.Server.Port
	if servePort > 0 {
		port = servePort
	}

	srv := server.New(server.Config{
		Log:             appLog,
		Engine:          engine.New(appConfig.ToEngineOptions(appLog)),
		Port:            port,
		CORSOrigins:     appConfig.Server.CORSOrigins,
		RequestTimeout:  appConfig.RequestTimeout(),
		DefaultStrategy: appConfig.DefaultStrategy(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
