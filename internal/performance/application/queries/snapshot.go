package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// snapshot loads the users and tasks a scoring run works on.
type snapshot struct {
	userRepo domain.UserRepository
	taskRepo domain.TaskRepository
}

// tasksOf returns the tasks owned by users. It skips the query when there
// is nobody to look up.
func (s snapshot) tasksOf(ctx context.Context, users []*domain.User) ([]*domain.Task, error) {
	if len(users) == 0 {
		return nil, nil
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return s.taskRepo.FindByEmployees(ctx, ids)
}

// instrumented records timing and counters for scoring runs.
type instrumented struct {
	metrics observability.Metrics
	logger  *slog.Logger
}

func newInstrumented() instrumented {
	return instrumented{metrics: observability.NoopMetrics{}, logger: slog.Default()}
}

func (i instrumented) timer(operation string) *observability.Timer {
	return observability.StartTimer(operation).WithMetrics(i.metrics).WithLogger(i.logger)
}

// recordRun counts one scoring run over n subjects.
func (i instrumented) recordRun(kind string, n int, timer *observability.Timer) {
	tag := observability.T("kind", kind)
	i.metrics.Counter(observability.MetricScoringRuns, 1, tag)
	i.metrics.Histogram(observability.MetricSubjectsRanked, float64(n), tag)
	i.metrics.Timing(observability.MetricScoringDuration, timer.Elapsed(), tag)
	i.logger.Debug("scoring run", "kind", kind, "subjects", n, "elapsed", timer.Elapsed())
}
