package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/smartchef/internal/domain/session"
	"github.com/yanqian/smartchef/internal/domain/speech"
	"github.com/yanqian/smartchef/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle and the idle session sweeper.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	sessions session.Service
	speech   speech.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, sessions session.Service, speechSvc speech.Service) *App {
	return &App{
		cfg:      cfg,
		logger:   logger.With("component", "bootstrap"),
		server:   server,
		sessions: sessions,
		speech:   speechSvc,
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	sweepCtx, stopSweep := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.sessions.RunSweeper(sweepCtx, a.expire)
	}()
	defer func() {
		stopSweep()
		wg.Wait()
		if stopped := a.speech.StopAll(); stopped > 0 {
			a.logger.Info("stopped speech on shutdown", "playbacks", stopped)
		}
	}()

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

// expire stops any playback left behind by a swept session.
func (a *App) expire(id uuid.UUID) {
	if stopped := a.speech.StopSession(id); stopped > 0 {
		a.logger.Info("stopped speech of expired session", "sessionId", id, "playbacks", stopped)
	}
}
