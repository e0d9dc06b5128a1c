package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("STORE_BACKENDS", "postgres, Mongo ,s3")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("VISION_PROVIDER", "Gemini")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, []string{"postgres", "mongo", "s3"}, cfg.StoreBackends)
	assert.True(t, cfg.HasStoreBackend("mongo"))
	assert.False(t, cfg.HasStoreBackend("sqlite"))
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, "gemini", cfg.VisionProvider)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("STORE_BACKENDS", "")
	t.Setenv("VISION_PROVIDER", "")
	t.Setenv("VISION_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"postgres"}, cfg.StoreBackends)
	assert.Equal(t, "http", cfg.VisionProvider)
	assert.Equal(t, 60, cfg.VisionTimeoutSeconds)
}

func TestLoadConfig_EmptyBackendList(t *testing.T) {
	t.Setenv("STORE_BACKENDS", " , ")

	_, err := Load()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "1", DBSSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=1 sslmode=disable", cfg.PostgresDSN())
}
