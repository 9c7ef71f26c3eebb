//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"relgraph/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideValidator,
	ProvideSupabaseClient,
	ProvideSessionProvider,
	ProvidePersonGateway,
	ProvideConnectionGateway,
	ProvideTaskGateway,
	ProvideCommentGateway,
	ProvideFeed,
	ProvideChangeFeed,
	ProvideEntityStore,
	ProvideInteractionState,
	ProvideController,
	wire.Struct(new(Container), "Config", "Logger", "Client", "Sessions", "Feed", "Store", "Interaction", "Controller"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
