package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_MODE", "")
	t.Setenv("CURRENCY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageMode)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 3*time.Second, cfg.LockWait)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.UploadsEnabled())
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CURRENCY", "eur")
	t.Setenv("LOCK_WAIT", "250ms")
	t.Setenv("RETRY_BACKOFF", "2s, ,1m")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, 250*time.Millisecond, cfg.LockWait)
	assert.Equal(t, []time.Duration{2 * time.Second, time.Minute}, cfg.RetryBackoff)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "minio:9000", cfg.S3PublicEndpoint)
	assert.True(t, cfg.S3UseSSL)
	assert.True(t, cfg.UploadsEnabled())
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":      {"JWT_SECRET": ""},
		"bad currency":        {"CURRENCY": "DOLLARS"},
		"bad duration":        {"LOCK_TTL": "soon"},
		"bad bool":            {"S3_USE_SSL": "maybe"},
		"unknown storage":     {"STORAGE_MODE": "sqlite"},
		"mongo without uri":   {"STORAGE_MODE": "mongo", "MONGO_URI": ""},
		"mongo without kafka": {"STORAGE_MODE": "mongo", "MONGO_URI": "mongodb://x", "KAFKA_BROKERS": ""},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PETHOST_DOTENV_A=file\nPETHOST_DOTENV_B=file\n"), 0o600))
	t.Setenv("PETHOST_DOTENV_A", "shell")
	t.Setenv("PETHOST_DOTENV_B", "")
	require.NoError(t, os.Unsetenv("PETHOST_DOTENV_B"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "shell", os.Getenv("PETHOST_DOTENV_A"))
	assert.Equal(t, "file", os.Getenv("PETHOST_DOTENV_B"))
	t.Cleanup(func() { _ = os.Unsetenv("PETHOST_DOTENV_B") })
}
