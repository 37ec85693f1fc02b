package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yanqian/jungle-board/internal/domain/session"
	"github.com/yanqian/jungle-board/internal/infra/config"
)

// App encapsulates the HTTP server and session watcher lifecycle.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	sessions *session.Store

	onListen func(net.Addr)
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, sessions *session.Store) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, sessions: sessions}
}

// Run starts the HTTP server and the session watcher, and blocks until shutdown.
// Request contexts end with ctx, so open session streams close before Shutdown waits on them.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := a.sessions.Watch(watchCtx); err != nil {
			a.logger.Error("session watcher stopped", "error", err)
		}
	}()

	go func() {
		a.logger.Info("http server starting", "address", ln.Addr().String(), "session_backend", a.cfg.Session.Backend)
		if a.onListen != nil {
			a.onListen(ln.Addr())
		}
		if err := a.server.Serve(ln); err != nil {
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
