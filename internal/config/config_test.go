package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DevelopmentFallbacks(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENCRYPTION_KEY", "")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("PUBLIC_URL", "http://localhost:9000/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, cfg.JWTSecret, cfg.EncryptionKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://localhost:9000", cfg.PublicURL)
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfig_UsePostgres(t *testing.T) {
	assert.False(t, (&Config{DBDriver: "sqlite"}).UsePostgres())
	assert.True(t, (&Config{DBDriver: "postgres"}).UsePostgres())
	assert.True(t, (&Config{DBDriver: "sqlite", DatabaseURL: "postgres://x"}).UsePostgres())
}
