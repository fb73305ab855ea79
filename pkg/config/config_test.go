package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Workflow.JobDefaultExpiryDays)
	assert.Equal(t, 30, cfg.Workflow.RestoreWindowDays)
	assert.Equal(t, 3, cfg.Workflow.ExpiringSoonDays)
	assert.Equal(t, 3, cfg.Workflow.MaxRetries)
	assert.Equal(t, time.Minute, cfg.Workflow.IdempotencyBucket)
	assert.Equal(t, StorageModeLocal, cfg.Storage.Mode)
	assert.Equal(t, DispatcherLog, cfg.Messaging.Dispatcher)
}

func TestValidateRejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsUnknownStorage(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("STORAGE_MODE", "ftp")

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_MODE")
}

func TestEnvStringSliceTrims(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvStringSlice("CORS_ORIGINS", nil))
}
