package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Scheduler.TickIntervalSeconds)
	assert.Equal(t, 10, cfg.Scheduler.ShutdownGraceSeconds)
	assert.Equal(t, 16, cfg.Notifier.MaxConcurrency)
	assert.Equal(t, 64, cfg.SSE.QueueDepth)
	assert.Equal(t, 30, cfg.SSE.HeartbeatSeconds)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadBareEnvAliases(t *testing.T) {
	t.Setenv("TICK_INTERVAL_SECONDS", "15")
	t.Setenv("SHUTDOWN_GRACE_SECONDS", "3")
	t.Setenv("NOTIFIER_MAX_CONCURRENCY", "4")
	t.Setenv("SSE_QUEUE_DEPTH", "8")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Scheduler.TickIntervalSeconds)
	assert.Equal(t, 3, cfg.Scheduler.ShutdownGraceSeconds)
	assert.Equal(t, 4, cfg.Notifier.MaxConcurrency)
	assert.Equal(t, 8, cfg.SSE.QueueDepth)
}

func TestLoadPrefixedEnvWinsOverAlias(t *testing.T) {
	t.Setenv("TICK_INTERVAL_SECONDS", "15")
	t.Setenv("RECURRA_SCHEDULER_TICK_INTERVAL_SECONDS", "25")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Scheduler.TickIntervalSeconds)
}

func TestLoadPrefixedEnv(t *testing.T) {
	t.Setenv("RECURRA_NOTIFIER_RETRY_ATTEMPTS", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Notifier.RetryAttempts)
}
