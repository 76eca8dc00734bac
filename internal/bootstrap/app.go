package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/masjidclock/masjid-display/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle and the cache sweeper.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	sweeper *Sweeper
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, sweeper *Sweeper) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, sweeper: sweeper}
}

// Run starts the server and sweeper and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go a.sweeper.Run(sweepCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
