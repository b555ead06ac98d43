package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-multierror"

	"MarketBrief/internal/domain/models"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
)

// Generator produces one daily report.
type Generator interface {
	Generate(ctx context.Context, date string) (*models.GenerateResult, error)
}

type closer struct {
	name string
	fn   func() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	gen        Generator
	handler    xhttp.Handler
	httpServer *xhttp.Server
	closers    []closer
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, gen Generator, handler xhttp.Handler) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, logger: l, gen: gen, handler: handler}
}

// OnClose registers fn to run at shutdown. Closers run in reverse order.
func (a *App) OnClose(name string, fn func() error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// RunOnce generates a single report and releases resources.
func (a *App) RunOnce(ctx context.Context, date string) (*models.GenerateResult, error) {
	res, err := a.gen.Generate(ctx, date)
	if cerr := a.Close(); cerr != nil {
		a.logger.Warn("close resources", applogger.Error(cerr))
	}
	return res, err
}

// Serve starts the HTTP server and blocks until ctx is done, a signal
// arrives, or the listener fails.
func (a *App) Serve(ctx context.Context) error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(a.cfg.Server.SlowThreshold),
		xhttp.WithMetricsPath(metricsPath(a.cfg)),
		xhttp.WithLogger(a.logger),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var result error
	select {
	case <-ctx.Done():
		a.logger.Info("context done")
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", applogger.String("signal", sig.String()))
	case err := <-a.httpServer.Err():
		result = multierror.Append(result, fmt.Errorf("http server: %w", err))
	}

	if err := a.shutdown(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

func (a *App) shutdown() error {
	a.logger.Info("shutting down...")

	var result error
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}
	if err := a.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	a.logger.Info("shutdown complete")
	return result
}

// Close runs every registered closer once and joins their errors.
func (a *App) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}

func metricsPath(cfg *config.Config) string {
	if !cfg.Metrics.Enabled {
		return ""
	}
	return cfg.Metrics.Path
}
