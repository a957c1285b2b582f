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

	"github.com/spf13/cobra"

	"github.com/cuemby/taskbook/internal/hub"
	"github.com/cuemby/taskbook/internal/server/db"
	"github.com/cuemby/taskbook/internal/server/httpapi"
	"github.com/cuemby/taskbook/pkg/config"
	"github.com/cuemby/taskbook/pkg/log"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 0 // streaming /events must not be cut off by a fixed write deadline
	idleTimeout  = 60 * time.Second

	shutdownTimeout  = 15 * time.Second
	sessionSweepTick = 10 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		ctx := context.Background()
		database, err := db.Open(ctx, cfg.DSN())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := db.Migrate(cfg.DSN()); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}

		h := hub.New()
		srv := httpapi.NewServer(database, h, cfg)

		httpServer := &http.Server{
			Addr:         cfg.ListenAddr(),
			Handler:      srv.Routes(),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		}

		sweepCtx, cancelSweep := context.WithCancel(ctx)
		defer cancelSweep()
		go sweepSessions(sweepCtx, database)

		errCh := make(chan error, 1)
		go func() {
			log.Logger.Info().Str("addr", cfg.ListenAddr()).Msg("listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			log.Logger.Info().Msg("shutting down")
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Logger.Info().Msg("shutdown complete")
		return nil
	},
}

func sweepSessions(ctx context.Context, database *db.DB) {
	ticker := time.NewTicker(sessionSweepTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := database.PruneExpiredSessions(ctx)
			if err != nil {
				log.Logger.Warn().Err(err).Msg("pruning expired sessions")
				continue
			}
			if n > 0 {
				log.Logger.Info().Int64("count", n).Msg("pruned expired sessions")
			}
		}
	}
}
