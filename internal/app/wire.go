//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/workscout/workscout/internal/config"
)

// InitializeApp wires every component from the loaded config.
func InitializeApp(cfg config.Config) (*App, error) {
	wire.Build(
		provideLogger,
		providePool,

		// Upstream API clients
		provideHHClient,
		provideGeekJobClient,
		provideAdzunaClient,

		// Domain services
		provideLocations,
		provideRegistry,
		provideSearchService,
		provideArchive,

		// Front-ends
		provideAPIServer,
		provideMCPServer,

		newApp,
	)

	return &App{}, nil
}
