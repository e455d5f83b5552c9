package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"devdesk/internal/ai"
	"devdesk/internal/server"
	"devdesk/internal/storage/sqlite"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the board UI and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			store, err := sqlite.Open(cfg.Database.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			client := ai.NewClient(ai.Config{
				APIKey:  cfg.AI.APIKey,
				BaseURL: cfg.AI.BaseURL,
				Model:   cfg.AI.Model,
				Timeout: cfg.AI.Timeout,
			}, logger)
			if !client.Configured() {
				logger.Info("no OpenAI API key configured, AI features disabled")
			}

			srv := server.New(store, logger, server.Options{
				StaticDir: cfg.Server.StaticDir,
				AI:        client,
				Dismiss:   cfg.DismissPolicy(),
			})
			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Engine(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("db", cfg.Database.Path))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				if err != nil {
					logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
					return err
				}
				return nil
			case <-quit:
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error("failed to shutdown server", slog.String("error", err.Error()))
			}
			logger.Info("server stopped")
			return nil
		},
	}
}
