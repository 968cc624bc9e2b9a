package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Revalidation secrets. Each trigger surface has its own shared secret.
	// An empty value never matches any caller-supplied secret (fail closed).
	WebhookSecret    string
	AdminSecret      string
	RevalidateSecret string

	// Render cache configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RenderTTL     time.Duration

	// AWS configuration (recipe data repository)
	AWSRegion    string
	RecipesTable string

	// Logging
	LogLevel string

	// Feature flags
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),
		AdminSecret:      getEnv("ADMIN_SECRET", ""),
		RevalidateSecret: getEnv("REVALIDATE_SECRET", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RenderTTL:     time.Duration(getEnvInt("RENDER_TTL_SECONDS", 3600)) * time.Second,

		AWSRegion:    getEnv("AWS_REGION", "us-west-2"),
		RecipesTable: getEnv("RECIPES_TABLE", "tastebase-recipes"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present. Secrets are
// required in production so a misdeployed instance cannot silently reject
// every trigger; the verifiers themselves fail closed either way.
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.WebhookSecret == "" {
			return fmt.Errorf("WEBHOOK_SECRET is required in production")
		}
		if c.AdminSecret == "" {
			return fmt.Errorf("ADMIN_SECRET is required in production")
		}
		if c.RevalidateSecret == "" {
			return fmt.Errorf("REVALIDATE_SECRET is required in production")
		}
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required in production")
		}
	}
	if c.RenderTTL <= 0 {
		return fmt.Errorf("RENDER_TTL_SECONDS must be positive")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
