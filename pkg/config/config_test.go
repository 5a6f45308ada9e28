package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "medconnect-test")
	t.Setenv("COALESCE_DELAY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "medconnect-test", cfg.FirebaseProject)
	assert.Equal(t, "medconnect-test.appspot.com", cfg.StorageBucket)
	assert.Equal(t, "https://us-central1-medconnect-test.cloudfunctions.net", cfg.FunctionsBaseURL)
	assert.Equal(t, 2*time.Second, cfg.CoalesceDelay)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COALESCE_DELAY", "500ms")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("USER_CACHE_SIZE", "64")
	t.Setenv("STORAGE_PROVIDER", "minio")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.CoalesceDelay)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 64, cfg.UserCacheSize)
	assert.Equal(t, "minio", cfg.StorageProvider)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("REACHABILITY_INTERVAL", "soon")
	t.Setenv("FUNCTIONS_RATE_PER_SECOND", "fast")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.ReachabilityInterval)
	assert.Equal(t, float64(20), cfg.FunctionsRatePerSecond)
}
