package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func TestHealthRegistry_OverallStatus(t *testing.T) {
	ctx := context.Background()
	registry := NewHealthRegistry()

	assert.Equal(t, HealthStatusHealthy, registry.GetOverallHealth(ctx).Status)

	registry.Register("database", DatabaseHealthChecker(ok))
	assert.Equal(t, HealthStatusHealthy, registry.GetOverallHealth(ctx).Status)

	registry.Register("redis", RedisHealthChecker(func(context.Context) error { return errors.New("dial tcp: refused") }))
	health := registry.GetOverallHealth(ctx)
	assert.Equal(t, HealthStatusDegraded, health.Status)
	assert.Contains(t, health.Checks["redis"].Message, "refused")

	registry.Register("database", DatabaseHealthChecker(func(context.Context) error { return errors.New("closed") }))
	assert.Equal(t, HealthStatusUnhealthy, registry.GetOverallHealth(ctx).Status)

	registry.Unregister("database")
	registry.Unregister("redis")
	health = registry.GetOverallHealth(ctx)
	assert.Equal(t, HealthStatusHealthy, health.Status)
	assert.Empty(t, health.Checks)
}

func TestHealthRegistry_CheckStampsResults(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("rabbitmq", RabbitMQHealthChecker(ok))

	results := registry.Check(context.Background())

	require.Contains(t, results, "rabbitmq")
	assert.False(t, results["rabbitmq"].Timestamp.IsZero())
	assert.Equal(t, "rabbitmq reachable", results["rabbitmq"].Message)
}

func TestHealthRegistry_CheckOne(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("rabbitmq", RabbitMQHealthChecker(ok))

	result, found := registry.CheckOne(context.Background(), "rabbitmq")
	require.True(t, found)
	assert.Equal(t, HealthStatusHealthy, result.Status)

	_, found = registry.CheckOne(context.Background(), "missing")
	assert.False(t, found)
}

func TestWorst(t *testing.T) {
	assert.Equal(t, HealthStatusHealthy, Worst(nil))
	assert.Equal(t, HealthStatusDegraded, Worst(map[string]HealthCheckResult{
		"a": {Status: HealthStatusHealthy},
		"b": {Status: HealthStatusDegraded},
	}))
	assert.Equal(t, HealthStatusUnhealthy, Worst(map[string]HealthCheckResult{
		"a": {Status: HealthStatusUnhealthy},
		"b": {Status: HealthStatusDegraded},
	}))
}

func TestOutboxLagChecker(t *testing.T) {
	lag := 2.0
	checker := OutboxLagChecker(func() float64 { return lag }, 30*time.Second)

	assert.Equal(t, HealthStatusHealthy, checker(context.Background()).Status)

	lag = 45
	result := checker(context.Background())
	assert.Equal(t, HealthStatusDegraded, result.Status)
	assert.Equal(t, 45.0, result.Details["lag_seconds"])

	unbounded := OutboxLagChecker(func() float64 { return 1e6 }, 0)
	assert.Equal(t, HealthStatusHealthy, unbounded(context.Background()).Status)
}

func TestOverallHealth_ToJSON(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("database", DatabaseHealthChecker(ok))

	data, err := registry.GetOverallHealth(context.Background()).ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"healthy"`)
	assert.Contains(t, string(data), `"database"`)
}
