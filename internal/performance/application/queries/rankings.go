package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/perfboard/internal/performance/application/services"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// GetEmployeeRankingsQuery contains the parameters for ranking employees.
type GetEmployeeRankingsQuery struct {
	Department string
	ActiveOnly bool
	Limit      int // 0 = all
}

// GetEmployeeRankingsHandler handles the GetEmployeeRankingsQuery.
type GetEmployeeRankingsHandler struct {
	snapshot
	instrumented
	ranking *services.RankingEngine
}

// NewGetEmployeeRankingsHandler creates a new GetEmployeeRankingsHandler.
func NewGetEmployeeRankingsHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, ranking *services.RankingEngine) *GetEmployeeRankingsHandler {
	return &GetEmployeeRankingsHandler{
		snapshot:     snapshot{userRepo: userRepo, taskRepo: taskRepo},
		instrumented: newInstrumented(),
		ranking:      ranking,
	}
}

// WithMetrics sets the metrics collector.
func (h *GetEmployeeRankingsHandler) WithMetrics(metrics observability.Metrics) *GetEmployeeRankingsHandler {
	h.metrics = metrics
	return h
}

// WithLogger sets the logger.
func (h *GetEmployeeRankingsHandler) WithLogger(logger *slog.Logger) *GetEmployeeRankingsHandler {
	h.logger = logger
	return h
}

// Handle executes the GetEmployeeRankingsQuery.
func (h *GetEmployeeRankingsHandler) Handle(ctx context.Context, query GetEmployeeRankingsQuery) (*RankingsDTO, error) {
	timer := h.timer("performance.rank_employees")

	employees, err := h.userRepo.FindAll(ctx, domain.UserFilter{
		Role:       domain.RoleEmployee,
		Department: query.Department,
		ActiveOnly: query.ActiveOnly,
	})
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}
	domain.SortUsers(employees)

	tasks, err := h.tasksOf(ctx, employees)
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}

	ranked := h.ranking.RankEmployees(employees, tasks)
	h.recordRun("employees", len(ranked), timer)
	timer.Stop(ctx, nil)

	result := toRankingsDTO(ranked, query.Limit)
	return &result, nil
}

// GetManagerRankingsQuery contains the parameters for ranking managers.
type GetManagerRankingsQuery struct {
	ActiveOnly bool
	Limit      int
}

// GetManagerRankingsHandler handles the GetManagerRankingsQuery.
type GetManagerRankingsHandler struct {
	snapshot
	instrumented
	ranking *services.RankingEngine
}

// NewGetManagerRankingsHandler creates a new GetManagerRankingsHandler.
func NewGetManagerRankingsHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, ranking *services.RankingEngine) *GetManagerRankingsHandler {
	return &GetManagerRankingsHandler{
		snapshot:     snapshot{userRepo: userRepo, taskRepo: taskRepo},
		instrumented: newInstrumented(),
		ranking:      ranking,
	}
}

// WithMetrics sets the metrics collector.
func (h *GetManagerRankingsHandler) WithMetrics(metrics observability.Metrics) *GetManagerRankingsHandler {
	h.metrics = metrics
	return h
}

// Handle executes the GetManagerRankingsQuery. A manager's team is every
// employee reporting to them directly.
func (h *GetManagerRankingsHandler) Handle(ctx context.Context, query GetManagerRankingsQuery) (*RankingsDTO, error) {
	timer := h.timer("performance.rank_managers")

	managers, err := h.userRepo.FindAll(ctx, domain.UserFilter{Role: domain.RoleManager, ActiveOnly: query.ActiveOnly})
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}
	domain.SortUsers(managers)

	employees, err := h.userRepo.FindAll(ctx, domain.UserFilter{Role: domain.RoleEmployee, ActiveOnly: query.ActiveOnly})
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}

	tasks, err := h.tasksOf(ctx, employees)
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}

	ranked := h.ranking.RankManagers(managers, tasks, employees)
	h.recordRun("managers", len(ranked), timer)
	timer.Stop(ctx, nil)

	result := toRankingsDTO(ranked, query.Limit)
	return &result, nil
}
