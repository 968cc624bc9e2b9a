package di

import (
	"tastebase-backend/application/ports"
	"tastebase-backend/application/services"
	"tastebase-backend/infrastructure/config"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	RenderCache ports.RenderCache
	Recipes     ports.RecipeReader
	Service     *services.RevalidationService
}
