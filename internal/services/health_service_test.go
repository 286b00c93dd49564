package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargolens/internal/shared/testutil"
)

func newTestHealthService(t *testing.T) *HealthService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	cfg := testConfig(t)
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	return NewHealthServiceWithBuildInfo("1.2.3", "2026-01-01T00:00:00Z", "build-42", paths, logger)
}

func TestHealthService_HealthCheck(t *testing.T) {
	svc := newTestHealthService(t)

	status := svc.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	t.Run("ready when directories exist", func(t *testing.T) {
		svc := newTestHealthService(t)
		require.NoError(t, svc.paths.EnsureDirectories())

		status := svc.ReadinessCheck(context.Background())
		assert.Equal(t, "ready", status.Status)
		require.Contains(t, status.Services, "data")
		require.Contains(t, status.Services, "reports")
	})

	t.Run("not ready without data directory", func(t *testing.T) {
		svc := newTestHealthService(t)
		require.NoError(t, os.RemoveAll(svc.paths.DataDir))

		status := svc.ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)
	})
}

func TestHealthService_LivenessCheck(t *testing.T) {
	svc := newTestHealthService(t)

	status := svc.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	require.NotNil(t, status.Runtime)
	assert.Contains(t, status.Runtime, "uptime")
	assert.Contains(t, status.Runtime, "go_version")
}

func TestHealthService_Version(t *testing.T) {
	t.Run("includes build info when set", func(t *testing.T) {
		svc := newTestHealthService(t)

		info := svc.Version()
		assert.Equal(t, "1.2.3", info["version"])
		assert.Equal(t, "2026-01-01T00:00:00Z", info["build_time"])
		assert.Equal(t, "build-42", info["build_id"])
	})

	t.Run("omits build info when unset", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		cfg := testConfig(t)
		paths, err := cfg.ResolvePaths()
		require.NoError(t, err)
		svc := NewHealthService("1.2.3", paths, logger)

		info := svc.Version()
		assert.NotContains(t, info, "build_time")
		assert.NotContains(t, info, "build_id")
	})
}
