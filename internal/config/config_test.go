package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "DATABASE_DRIVER", "DATABASE_URL", "HTTP_ADDR", "JWT_TTL", "LOG_LEVEL", "CORS_ORIGINS", "BASE_ADMIN_CHAT_ID")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "vacations.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, int64(0), cfg.BaseAdminChatID)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	unsetEnv(t, "LOG_LEVEL")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/vacations")
	t.Setenv("BASE_ADMIN_CHAT_ID", "42")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("HOLIDAY_CACHE_TTL", "bogus")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("LOGIN_RATE_PER_SEC", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, int64(42), cfg.BaseAdminChatID)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 24*time.Hour, cfg.HolidayCacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 0.5, cfg.LoginRatePerSec)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	unsetEnv(t, "LOG_LEVEL", "DATABASE_URL")
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load()
	assert.Error(t, err)
}
