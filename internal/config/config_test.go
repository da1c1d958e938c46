package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "stocklane", cfg.App.Name)
		assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, []string{"super-admin"}, cfg.Access.SuperAdminRoles)
		assert.Equal(t, "*", cfg.Access.WildcardPermission)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.Cache.SnapshotTTL)
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("ACCESS_SUPER_ADMIN_ROLES", "owner, platform-admin")
		t.Setenv("CACHE_ENABLED", "false")
		t.Setenv("SERVER_RATE_LIMIT_RPS", "2.5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, []string{"owner", "platform-admin"}, cfg.Access.SuperAdminRoles)
		assert.False(t, cfg.Cache.Enabled)
		assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	})

	t.Run("production requires a jwt secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("AUTH_JWT_SECRET", "test-secret-test-secret-test-secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "u", Password: "p", Name: "stocklane", SSLMode: "require",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=stocklane sslmode=require", cfg.DSN())
}
