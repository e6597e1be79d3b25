package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmaloney/backoffice/internal/config"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-key-with-enough-length-123")
	t.Setenv("ENV", "development")
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_LATENCY", "")
	t.Setenv("TOKEN_EXPIRY", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, time.Duration(0), cfg.Store.Latency)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins, "development should allow localhost origins")
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsWeakSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "changeme")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProductionNeedsLongerSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "twenty-char-secret12")

	_, err := config.Load()
	assert.Error(t, err, "production requires at least 32 characters")

	t.Setenv("JWT_SECRET", "a-much-longer-production-secret-value-123")
	_, err = config.Load()
	assert.NoError(t, err)
}

func TestLoad_StoreDriver(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("STORE_DRIVER", "filesystem")
	_, err := config.Load()
	assert.Error(t, err, "unknown store drivers are rejected")

	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "")
	_, err = config.Load()
	assert.Error(t, err, "postgres store requires a database password")

	t.Setenv("DB_PASSWORD", "db-password")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
}

func TestLoad_StoreLatency(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_LATENCY", "250ms")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.Latency)
}

func TestLoad_ProductionOriginsFromEnv(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "a-much-longer-production-secret-value-123")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.example.com, https://backoffice.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://admin.example.com", "https://backoffice.example.com"}, cfg.Server.AllowedOrigins)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "backoffice",
		Password: "db-password",
		Name:     "backoffice",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=backoffice password=db-password dbname=backoffice sslmode=require",
		cfg.DSN())
}
