//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"tastebase-backend/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideRecipeReader,
	ProvideRenderCache,
	ProvideRevalidationService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired dependency container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
