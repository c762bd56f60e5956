package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "ADMIN001", cfg.ActorID)

	assert.True(t, cfg.LocalMode, "no DATABASE_URL means local mode")
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Empty(t, cfg.DatabaseURL)

	assert.Equal(t, "noop", cfg.EventBroker)
	assert.Equal(t, "perfboard:", cfg.RedisChannelPrefix)
	assert.True(t, cfg.PublisherBreakerEnabled)
	assert.Equal(t, 5, cfg.PublisherBreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.PublisherBreakerTimeout)

	assert.Equal(t, 100*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, time.Second, cfg.OutboxRetryBackoffBase)
	assert.Equal(t, time.Minute, cfg.OutboxRetryBackoffMax)
	assert.Equal(t, 14, cfg.OutboxRetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.OutboxCleanupInterval)
	assert.Equal(t, 5*time.Minute, cfg.OutboxMaxLag)
	assert.True(t, cfg.OutboxProcessorEnabled)

	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
	assert.Equal(t, "0.0.0.0:8082", cfg.MCPAddr)
	assert.Empty(t, cfg.MCPAuthToken)

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFrom_ServerMode(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"DATABASE_URL": "postgres://perfboard:secret@db:5432/perfboard",
		"APP_ENV":      "production",
		"EVENT_BROKER": "rabbitmq",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.LocalMode)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "rabbitmq", cfg.EventBroker)
	assert.True(t, cfg.IsProduction())
}

func TestLoadFrom_CustomValues(t *testing.T) {
	cfg, err := LoadFrom(envOf(map[string]string{
		"PERFBOARD_ACTOR_ID":        "MGR003",
		"SQLITE_PATH":               "/tmp/perfboard.db",
		"OUTBOX_BATCH_SIZE":         "25",
		"OUTBOX_POLL_INTERVAL":      "2s",
		"PUBLISHER_BREAKER_ENABLED": "false",
		"MCP_AUTH_TOKEN":            "token-1",
		"WORKER_HEALTH_ADDR":        "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "MGR003", cfg.ActorID)
	assert.Equal(t, "/tmp/perfboard.db", cfg.SQLitePath)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.False(t, cfg.PublisherBreakerEnabled)
	assert.Equal(t, "token-1", cfg.MCPAuthToken)
}

func TestLoadFrom_MalformedValues(t *testing.T) {
	_, err := LoadFrom(envOf(map[string]string{
		"OUTBOX_BATCH_SIZE":        "many",
		"OUTBOX_POLL_INTERVAL":     "soon",
		"OUTBOX_PROCESSOR_ENABLED": "maybe",
	}))
	require.Error(t, err)

	for _, key := range []string{"OUTBOX_BATCH_SIZE", "OUTBOX_POLL_INTERVAL", "OUTBOX_PROCESSOR_ENABLED"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := []struct {
		name  string
		vars  map[string]string
		field string
	}{
		{"zero batch size", map[string]string{"OUTBOX_BATCH_SIZE": "0"}, "OutboxBatchSize"},
		{"negative retries", map[string]string{"OUTBOX_MAX_RETRIES": "-1"}, "OutboxMaxRetries"},
		{"backoff cap below base", map[string]string{"OUTBOX_RETRY_BACKOFF_BASE": "10s", "OUTBOX_RETRY_BACKOFF_MAX": "1s"}, "OutboxRetryBackoffMax"},
		{"server mode without url", map[string]string{"PERFBOARD_LOCAL_MODE": "false"}, "DatabaseURL"},
		{"bad mcp addr", map[string]string{"MCP_ADDR": "not an address"}, "MCPAddr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(envOf(tt.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("PERFBOARD_ACTOR_ID", "MGR001")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "MGR001", cfg.ActorID)
}
