package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "APP_ENV", "PORT", "DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "JWT_EXPIRATION",
		"CONTENT_STORE", "CONTENT_BUCKET", "S3_ENDPOINT", "REDIS_URL", "CACHE_TTL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "roadmaps.db", cfg.Database.DSN)
	assert.Equal(t, "memory", cfg.ContentStore.Backend)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10*time.Minute, cfg.Redis.CacheTTL)
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
database:
  driver: postgres
  dsn: postgres://file
content_store:
  backend: gcs
  bucket: roadmaps-bucket
redis:
  cache_ttl: 1m
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://file", cfg.Database.DSN)
	assert.Equal(t, "gcs", cfg.ContentStore.Backend)
	assert.Equal(t, "roadmaps-bucket", cfg.ContentStore.Bucket)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTENT_STORE", "ftp")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown content store backend")
}

func TestLoadRequiresBucketForGCS(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTENT_STORE", "gcs")

	_, err := Load()
	assert.ErrorContains(t, err, "CONTENT_BUCKET")
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}
