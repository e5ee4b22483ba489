package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	drepo "SignalDesk/internal/domain/repository"
	"SignalDesk/internal/render"
	"SignalDesk/internal/usecase"
	"SignalDesk/pkg/config"
	xhttp "SignalDesk/pkg/http"
	applogger "SignalDesk/pkg/logger"
)

// Closer releases an infrastructure client at shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	sync       *usecase.SyncController
	stream     drepo.PushStream
	dispatcher *render.Dispatcher
	httpServer *xhttp.Server
	closers    []Closer
}

// New creates a new App instance with all dependencies. stream may be nil.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	sync *usecase.SyncController,
	stream drepo.PushStream,
	dispatcher *render.Dispatcher,
	httpServer *xhttp.Server,
	closers []Closer,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		sync:       sync,
		stream:     stream,
		dispatcher: dispatcher,
		httpServer: httpServer,
		closers:    closers,
	}
}

// Run starts every component and blocks until interrupted or the HTTP
// listener fails.
func (a *App) Run(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.dispatcher.Start(runCtx)

	if err := a.sync.Start(runCtx); err != nil {
		return errors.Join(fmt.Errorf("start sync: %w", err), a.shutdown(cancel))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return errors.Join(err, a.shutdown(cancel))
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-a.httpServer.Errors():
		runErr = fmt.Errorf("http server: %w", err)
	}
	return errors.Join(runErr, a.shutdown(cancel))
}

// shutdown stops components in reverse start order.
func (a *App) shutdown(cancel context.CancelFunc) error {
	a.log.Info("shutting down...")
	var errs []error

	shutdownCtx, done := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer done()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	cancel()
	if a.stream != nil {
		if err := a.stream.Close(); err != nil {
			a.log.Warn("push stream close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	a.sync.Wait()
	a.dispatcher.Stop()

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("component", c.Name), applogger.Error(err))
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name, err))
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
