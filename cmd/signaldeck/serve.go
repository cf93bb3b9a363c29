package main

import (
	"context"
	"fmt"
	"time"

	"github.com/newthinker/signaldeck/internal/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	if a.cfg.Archive.Enabled && a.cfg.Archive.OnRefresh {
		arch, err := a.archiver()
		if err != nil {
			return err
		}
		a.store.OnRefresh(arch.OnRefresh)
		log.Info("archiving snapshots on refresh", zap.String("type", a.cfg.Archive.Type))
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	server, err := api.NewServer(api.Config{
		Host:        a.cfg.Server.Host,
		Port:        a.cfg.Server.Port,
		APIKey:      a.cfg.Server.APIKey,
		MetricsPath: metricsPath,
	}, api.Dependencies{
		Store:   a.store,
		Backend: a.svc,
		Metrics: a.metrics,
	}, log.Named("api"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx := cmd.Context()
	if err := a.store.Start(ctx); err != nil {
		return fmt.Errorf("starting store: %w", err)
	}

	log.Info("starting SignalDeck server",
		zap.String("addr", server.Addr()),
		zap.String("backend", a.cfg.API.BaseURL),
		zap.Duration("refresh_interval", a.store.Interval()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("shutting down SignalDeck server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
