package di

import (
	"context"

	"tastebase-backend/application/ports"
	"tastebase-backend/application/services"
	"tastebase-backend/infrastructure/cache"
	"tastebase-backend/infrastructure/config"
	"tastebase-backend/infrastructure/persistence/dynamodb"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideRecipeReader creates the recipe data repository
func ProvideRecipeReader(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RecipeReader {
	return dynamodb.NewRecipeRepository(client, cfg.RecipesTable, logger)
}

// ProvideRenderCache creates the render cache. Redis when configured, the
// in-process cache otherwise (development only; Validate requires Redis in
// production).
func ProvideRenderCache(cfg *config.Config, logger *zap.Logger) (ports.RenderCache, error) {
	if cfg.RedisAddr != "" {
		return cache.NewRedisRenderCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	}
	logger.Warn("REDIS_ADDR not set, using in-process render cache")
	return cache.NewMemoryRenderCache(), nil
}

// ProvideRevalidationService creates the revalidation service
func ProvideRevalidationService(
	renderCache ports.RenderCache,
	recipes ports.RecipeReader,
	logger *zap.Logger,
) *services.RevalidationService {
	return services.NewRevalidationService(renderCache, recipes, logger)
}
