//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"memoclient/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideBackend,
	ProvideUserStore,
	ProvideMemoStore,
	ProvideTagStore,
	ProvideResourceStore,
	ProvideFilter,
	ProvideDraftCache,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired session container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
