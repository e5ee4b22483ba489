//go:build wireinject
// +build wireinject

package di

import (
	"SignalDesk/pkg/config"
	"SignalDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideSessionID,
		ProvideInfra,
		ProvideLogger,

		// Metrics
		ProvideRecorder,
		ProvideMetrics,

		// Transports
		ProvideSignalSource,
		ProvidePushStream,

		// Render adapters
		ProvideJournal,
		ProvideDispatcher,
		ProvideCacheAdapter,
		ProvideRenderAdapter,

		// Use cases
		ProvideDashboard,
		ProvideSyncController,

		// HTTP
		ProvideViewHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
