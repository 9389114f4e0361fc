package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "./data/badminton_eval_data.json", cfg.Storage.Path)
	assert.Equal(t, "badminton_eval_data", cfg.Storage.Key)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 8, cfg.Redis.DB)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
}

func TestLoad_envOverrides(t *testing.T) {
	t.Setenv("BADMINTON_STORAGE_BACKEND", "redis")
	t.Setenv("BADMINTON_REDIS_ADDR", "redis:6380")
	t.Setenv("BADMINTON_REDIS_DB", "2")
	t.Setenv("BADMINTON_LOGGING_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_configFile(t *testing.T) {
	dir := t.TempDir()
	yml := "storage:\n  backend: memory\nlogging:\n  pretty: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.False(t, cfg.Logging.Pretty)
}

func TestLoad_unknownBackend(t *testing.T) {
	t.Setenv("BADMINTON_STORAGE_BACKEND", "sqlite")

	_, err := Load(t.TempDir())
	assert.EqualError(t, err, `unknown storage backend "sqlite"`)
}
