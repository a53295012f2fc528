package app

import (
	"context"
	"io"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"storefront/pkg/logging"
)

// shutdownTimeout bounds graceful shutdown of both servers.
const shutdownTimeout = 10 * time.Second

// Run starts both servers and the config watcher, then blocks until the
// context is cancelled or an interrupt signal arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.mcpServer.Start(ctx); err != nil {
		return err
	}

	if err := a.watcher.Start(); err != nil {
		logging.Warn("App", "Config watcher failed to start: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.httpServer.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		a.shutdown()
		return nil
	})

	logging.Info("App", "storefront is running")
	return g.Wait()
}

// shutdown stops the watcher and both servers with a bounded grace period.
func (a *Application) shutdown() {
	logging.Info("App", "Shutting down")

	a.watcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("App", err, "HTTP server shutdown error")
	}
	if err := a.mcpServer.Stop(shutdownCtx); err != nil {
		logging.Error("App", err, "MCP server shutdown error")
	}

	if closer, ok := a.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logging.Error("App", err, "Session store close error")
		}
	}
}
