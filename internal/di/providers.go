package di

import (
	"fmt"

	"MarketLens/internal/delegate"
	domsvc "MarketLens/internal/domain/service"
	"MarketLens/internal/handler/api"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/source"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus recorder, or a no-op recorder when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) domsvc.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideRemoteQuotes creates the remote daily-bar loader. Disabled remote
// sourcing yields nil, which makes the usecase generate synthetic data only.
func ProvideRemoteQuotes(cfg *config.Config) domsvc.RemoteQuotes {
	if !cfg.Remote.Enabled {
		return nil
	}
	return source.NewYahooClient(cfg.Remote.BaseURL, cfg.Remote.Timeout,
		source.WithSymbolMap(cfg.Remote.SymbolMap))
}

// ProvideCrossValidator creates the external cross-check runner when a
// command is configured.
func ProvideCrossValidator(cfg *config.Config) domsvc.CrossValidator {
	if cfg.Delegate.Command == "" {
		return nil
	}
	var opts []delegate.Option
	if cfg.Delegate.ScratchFile != "" {
		opts = append(opts, delegate.WithScratchFile(cfg.Delegate.ScratchFile))
	}
	return delegate.NewExec(cfg.Delegate.Command, cfg.Delegate.Timeout, opts...)
}

// ProvideAnalyzer wires the analysis usecase.
func ProvideAnalyzer(cfg *config.Config, remote domsvc.RemoteQuotes, validator domsvc.CrossValidator, m domsvc.Metrics, l *applogger.Logger) *usecase.Analyzer {
	return usecase.NewAnalyzer(cfg, remote, validator, m, l)
}

// ProvideRateLimiter creates the API rate limiter when enabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(l *applogger.Logger, analyzer *usecase.Analyzer, limiter *ratelimit.Limiter) xhttp.Handler {
	return api.NewMarketHandler(l, analyzer, limiter)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler) *server.App {
	return server.New(cfg, l, handler)
}
