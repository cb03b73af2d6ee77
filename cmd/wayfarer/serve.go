package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wayhttp "wayfarer/internal/http"
	"wayfarer/internal/pipeline"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the planning API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		model, err := newModel(ctx)
		if err != nil {
			return err
		}
		defer model.Close()

		src, closeSources, err := newSources()
		if err != nil {
			return err
		}
		defer closeSources()

		deps := wayhttp.RouterDeps{
			Planner:  pipeline.NewItinerary(model, cfg.Pipeline, cfg.Itinerary),
			Ranker:   pipeline.NewRanker(model, cfg.Pipeline),
			Safety:   pipeline.NewSafety(cfg.Safety, src),
			Packager: pipeline.NewPackager(cfg.Providers),
			Timeout:  time.Duration(cfg.HTTP.RequestTimeout) * time.Second,
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.HTTP.Addr
		}
		srv := &http.Server{
			Addr:    addr,
			Handler: wayhttp.NewRouter(deps),
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("server listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
