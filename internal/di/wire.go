//go:build wireinject
// +build wireinject

package di

import (
	"ConfidenceMeter/pkg/config"
	"ConfidenceMeter/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Upstream clients
		ProvideCoinGecko,
		ProvideYahoo,
		ProvidePolymarket,

		// Services
		ProvideMarketData,
		ProvideSentiment,

		// Use cases
		ProvideEngine,
		ProvideFeedback,

		// HTTP
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
