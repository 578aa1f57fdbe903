//go:build wireinject
// +build wireinject

package di

import (
	"MarketLens/pkg/config"
	"MarketLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient services
		ProvideLogger,
		ProvideMetrics,

		// Data sources and cross-check
		ProvideRemoteQuotes,
		ProvideCrossValidator,

		// Use case
		ProvideAnalyzer,

		// HTTP surface
		ProvideRateLimiter,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
