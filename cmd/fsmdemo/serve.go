package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openwebos/fsm/internal/demo"
	"github.com/openwebos/fsm/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <scenario>",
		Short: "Serve a sample machine over HTTP",
		Long: `Starts the named scenario and exposes it as a JSON API:

  GET  /state          current state and its path from the root
  POST /events/{name}  dispatch an event; the JSON body holds its payload
  GET  /diagram        PlantUML diagram of the transitions taken so far
  GET  /metrics        Prometheus metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := demo.Lookup(args[0])
			if err != nil {
				return err
			}
			logger, err := commandLogger(cmd)
			if err != nil {
				return err
			}
			config, err := machineConfig(cmd)
			if err != nil {
				return err
			}
			srv, err := server.New(scenario, config, logger)
			if err != nil {
				return err
			}

			addr, _ := cmd.Flags().GetString("addr")
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErrors := make(chan error, 1)
			go func() {
				logger.Info("serving", "scenario", scenario.Name, "addr", addr)
				serverErrors <- httpServer.ListenAndServe()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					httpServer.Close()
					return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
				}
				return nil
			}
		},
	}
	cmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
	return cmd
}
