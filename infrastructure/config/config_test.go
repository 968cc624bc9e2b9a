package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.Hour, cfg.RenderTTL)
	assert.True(t, cfg.EnableCORS)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "wh")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RENDER_TTL_SECONDS", "120")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "wh", cfg.WebhookSecret)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2*time.Minute, cfg.RenderTTL)
}

func TestValidateFailsClosedInProduction(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment:      "production",
			WebhookSecret:    "wh",
			AdminSecret:      "ad",
			RevalidateSecret: "rv",
			RedisAddr:        "localhost:6379",
			RenderTTL:        time.Hour,
		}
	}

	t.Run("complete configuration passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing webhook secret", func(t *testing.T) {
		cfg := base()
		cfg.WebhookSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "WEBHOOK_SECRET")
	})

	t.Run("missing admin secret", func(t *testing.T) {
		cfg := base()
		cfg.AdminSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "ADMIN_SECRET")
	})

	t.Run("missing revalidate secret", func(t *testing.T) {
		cfg := base()
		cfg.RevalidateSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "REVALIDATE_SECRET")
	})

	t.Run("missing redis address", func(t *testing.T) {
		cfg := base()
		cfg.RedisAddr = ""
		assert.ErrorContains(t, cfg.Validate(), "REDIS_ADDR")
	})
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := &Config{Environment: "development", RenderTTL: 0}
	assert.ErrorContains(t, cfg.Validate(), "RENDER_TTL_SECONDS")
}

func TestSecretsDefaultToEmpty(t *testing.T) {
	// Development loads without secrets; the verifiers fail closed on empty
	// values, so an unconfigured instance rejects every trigger rather than
	// accepting any.
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.WebhookSecret)
	assert.Empty(t, cfg.AdminSecret)
	assert.Empty(t, cfg.RevalidateSecret)
}
