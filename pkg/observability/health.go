package observability

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// HealthStatus is the state of one dependency or of the whole process.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// severity orders statuses so the worst one wins.
func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthCheckResult is the outcome of one check.
type HealthCheckResult struct {
	Status    HealthStatus   `json:"status"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"duration_ns"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry runs named checks for the worker's /readyz endpoint and the
// CLI health command.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: map[string]HealthChecker{}}
}

// Register adds or replaces the checker for name.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

func (r *HealthRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// Check runs every registered checker concurrently.
func (r *HealthRegistry) Check(ctx context.Context) map[string]HealthCheckResult {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := run(ctx, c)
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

// CheckOne runs the checker registered under name.
func (r *HealthRegistry) CheckOne(ctx context.Context, name string) (HealthCheckResult, bool) {
	r.mu.RLock()
	c, ok := r.checkers[name]
	r.mu.RUnlock()
	if !ok {
		return HealthCheckResult{}, false
	}
	return run(ctx, c), true
}

func run(ctx context.Context, c HealthChecker) HealthCheckResult {
	start := time.Now()
	res := c(ctx)
	res.Duration = time.Since(start)
	res.Timestamp = time.Now().UTC()
	return res
}

// OverallHealth is the JSON body served by /readyz.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// GetOverallHealth runs all checks. The overall status is the worst
// individual status, or healthy when nothing is registered.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	checks := r.Check(ctx)
	return OverallHealth{
		Status:    Worst(checks),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}

// Worst returns the most severe status among results.
func Worst(results map[string]HealthCheckResult) HealthStatus {
	worst := HealthStatusHealthy
	for _, res := range results {
		if res.Status.severity() > worst.severity() {
			worst = res.Status
		}
	}
	return worst
}

func (h OverallHealth) ToJSON() ([]byte, error) {
	return json.Marshal(h)
}

// pingChecker reports healthy when ping succeeds and onFailure otherwise.
func pingChecker(component string, onFailure HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{Status: onFailure, Message: component + " unreachable: " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy, Message: component + " reachable"}
	}
}

// DatabaseHealthChecker marks the process unhealthy when the task store is
// unreachable.
func DatabaseHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return pingChecker("database", HealthStatusUnhealthy, ping)
}

// RedisHealthChecker degrades health when the Redis broker is unreachable.
// Events keep accumulating in the outbox meanwhile.
func RedisHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return pingChecker("redis", HealthStatusDegraded, ping)
}

// RabbitMQHealthChecker degrades health when the RabbitMQ broker is
// unreachable.
func RabbitMQHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return pingChecker("rabbitmq", HealthStatusDegraded, ping)
}

// OutboxLagChecker degrades health when the oldest pending outbox message
// has waited longer than maxLag. A zero maxLag disables the threshold.
func OutboxLagChecker(lagSeconds func() float64, maxLag time.Duration) HealthChecker {
	return func(context.Context) HealthCheckResult {
		lag := lagSeconds()
		res := HealthCheckResult{
			Status:  HealthStatusHealthy,
			Message: "outbox relay keeping up",
			Details: map[string]any{"lag_seconds": lag},
		}
		if maxLag > 0 && lag > maxLag.Seconds() {
			res.Status = HealthStatusDegraded
			res.Message = "outbox relay is lagging"
		}
		return res
	}
}
