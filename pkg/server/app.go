package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

// App encapsulates the application lifecycle.
type App struct {
	cfg    *config.Config
	log    *applogger.Logger
	server *xhttp.Server
}

// New creates the App around an HTTP handler.
func New(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler) *App {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	srv := xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(log),
	)

	return &App{cfg: cfg, log: log, server: srv}
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	if err := a.server.Start(); err != nil {
		return fmt.Errorf("start http server: %w", err)
	}
	a.log.Info("application started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server within the configured grace period.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.log.Info("shutdown complete")
	return nil
}
