package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("StatsCacheTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{StatsCacheSeconds: 60}
		assert.Equal(t, 60*time.Second, cfg.StatsCacheTTL())
	})
}

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"PORT":                os.Getenv("PORT"),
		"DATABASE_URL":        os.Getenv("DATABASE_URL"),
		"REDIS_URL":           os.Getenv("REDIS_URL"),
		"ADMIN_TOKEN":         os.Getenv("ADMIN_TOKEN"),
		"STATS_CACHE_SECONDS": os.Getenv("STATS_CACHE_SECONDS"),
		"LOG_LEVEL":           os.Getenv("LOG_LEVEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	t.Run("loads config with defaults", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "postgres://localhost/test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Unsetenv("PORT")
		os.Unsetenv("ADMIN_TOKEN")
		os.Unsetenv("STATS_CACHE_SECONDS")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
		assert.Equal(t, 60, cfg.StatsCacheSeconds)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("loads custom values", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "postgres://localhost/test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Setenv("PORT", "3000")
		os.Setenv("STATS_CACHE_SECONDS", "120")
		os.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, 120, cfg.StatsCacheSeconds)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("fails without required values", func(t *testing.T) {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("REDIS_URL")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects short admin token in production", func(t *testing.T) {
		cfg := &Config{AdminToken: "short"}
		err := cfg.Validate(true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_TOKEN")
	})

	t.Run("rejects known weak token in production", func(t *testing.T) {
		cfg := &Config{AdminToken: "change-me"}
		err := cfg.Validate(true)
		require.Error(t, err)
	})

	t.Run("accepts short token outside production", func(t *testing.T) {
		cfg := &Config{AdminToken: "short"}
		assert.NoError(t, cfg.Validate(false))
	})

	t.Run("accepts strong token in production", func(t *testing.T) {
		cfg := &Config{AdminToken: "0123456789abcdef0123456789abcdef"}
		assert.NoError(t, cfg.Validate(true))
	})
}
