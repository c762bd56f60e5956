package queries

import (
	"context"

	"github.com/felixgeelhaar/perfboard/internal/performance/application/services"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// DefaultTopEmployees is how many employees the org report lists.
const DefaultTopEmployees = 10

// GetOrgReportQuery asks for the organisation-wide report.
type GetOrgReportQuery struct {
	TopEmployees int // 0 = DefaultTopEmployees
}

// DepartmentLeaderDTO is the best employee of a department.
type DepartmentLeaderDTO struct {
	Department string    `json:"department"`
	Top        RankedDTO `json:"top"`
}

// OrgReportDTO is the organisation-wide report.
type OrgReportDTO struct {
	Stats                services.OrgStats               `json:"stats"`
	DepartmentCompletion []services.DepartmentCompletion `json:"department_completion"`
	DepartmentWorkload   []services.DepartmentWorkload   `json:"department_workload"`
	DepartmentLeaders    []DepartmentLeaderDTO           `json:"department_leaders"`
	TopEmployees         []RankedDTO                     `json:"top_employees"`
	Managers             []RankedDTO                     `json:"managers"`
}

// GetOrgReportHandler handles the GetOrgReportQuery.
type GetOrgReportHandler struct {
	snapshot
	instrumented
	ranking *services.RankingEngine
	reports *services.ReportBuilder
}

// NewGetOrgReportHandler creates a new GetOrgReportHandler.
func NewGetOrgReportHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, ranking *services.RankingEngine, reports *services.ReportBuilder) *GetOrgReportHandler {
	return &GetOrgReportHandler{
		snapshot:     snapshot{userRepo: userRepo, taskRepo: taskRepo},
		instrumented: newInstrumented(),
		ranking:      ranking,
		reports:      reports,
	}
}

// WithMetrics sets the metrics collector.
func (h *GetOrgReportHandler) WithMetrics(metrics observability.Metrics) *GetOrgReportHandler {
	h.metrics = metrics
	return h
}

// Handle executes the GetOrgReportQuery.
func (h *GetOrgReportHandler) Handle(ctx context.Context, query GetOrgReportQuery) (*OrgReportDTO, error) {
	timer := h.timer("performance.report")

	users, err := h.userRepo.FindAll(ctx, domain.UserFilter{})
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}
	domain.SortUsers(users)

	tasks, err := h.taskRepo.FindAll(ctx)
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}

	employees := domain.FilterUsers(users, (*domain.User).IsEmployee)
	managers := domain.FilterUsers(users, (*domain.User).IsManager)

	top := query.TopEmployees
	if top <= 0 {
		top = DefaultTopEmployees
	}

	report := &OrgReportDTO{
		Stats:                h.reports.OrgStats(tasks),
		DepartmentCompletion: h.reports.DepartmentCompletion(users, tasks),
		DepartmentWorkload:   h.reports.DepartmentWorkload(users, tasks),
		TopEmployees:         toRankedDTOs(services.Top(h.ranking.RankEmployees(employees, tasks), top)),
		Managers:             toRankedDTOs(h.ranking.RankManagers(managers, tasks, employees)),
	}
	for _, leader := range h.reports.DepartmentTopPerformers(users, tasks) {
		report.DepartmentLeaders = append(report.DepartmentLeaders, DepartmentLeaderDTO{
			Department: leader.Department,
			Top:        toRankedDTO(leader.Top),
		})
	}

	h.recordRun("org_report", len(employees)+len(managers), timer)
	timer.Stop(ctx, nil)
	return report, nil
}

// GetTeamDashboardQuery asks for the dashboard of one manager's team.
type GetTeamDashboardQuery struct {
	ManagerID string
}

// TeamDashboardDTO summarises a manager's team.
type TeamDashboardDTO struct {
	Manager        UserDTO     `json:"manager"`
	TeamSize       int         `json:"team_size"`
	TotalTasks     int         `json:"total_tasks"`
	CompletionRate int         `json:"completion_rate"`
	TotalRework    int         `json:"total_rework"`
	ManagerScore   float64     `json:"manager_score"`
	Team           []RankedDTO `json:"team"`
	TopPerformer   *RankedDTO  `json:"top_performer,omitempty"`
}

// GetTeamDashboardHandler handles the GetTeamDashboardQuery.
type GetTeamDashboardHandler struct {
	snapshot
	instrumented
	reports *services.ReportBuilder
}

// NewGetTeamDashboardHandler creates a new GetTeamDashboardHandler.
func NewGetTeamDashboardHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, reports *services.ReportBuilder) *GetTeamDashboardHandler {
	return &GetTeamDashboardHandler{
		snapshot:     snapshot{userRepo: userRepo, taskRepo: taskRepo},
		instrumented: newInstrumented(),
		reports:      reports,
	}
}

// WithMetrics sets the metrics collector.
func (h *GetTeamDashboardHandler) WithMetrics(metrics observability.Metrics) *GetTeamDashboardHandler {
	h.metrics = metrics
	return h
}

// Handle executes the GetTeamDashboardQuery.
func (h *GetTeamDashboardHandler) Handle(ctx context.Context, query GetTeamDashboardQuery) (*TeamDashboardDTO, error) {
	manager, err := h.userRepo.FindByID(ctx, query.ManagerID)
	if err != nil {
		return nil, err
	}

	timer := h.timer("performance.team_dashboard")

	users, err := h.userRepo.FindAll(ctx, domain.UserFilter{})
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}
	domain.SortUsers(users)
	team := domain.FilterUsers(users, func(u *domain.User) bool { return u.ManagerID == manager.ID })

	tasks, err := h.tasksOf(ctx, team)
	if err != nil {
		timer.Stop(ctx, err)
		return nil, err
	}

	d := h.reports.TeamDashboard(manager.ID, team, tasks)
	result := &TeamDashboardDTO{
		Manager:        toUserDTO(manager),
		TeamSize:       d.TeamSize,
		TotalTasks:     d.TotalTasks,
		CompletionRate: d.CompletionRate,
		TotalRework:    d.TotalRework,
		ManagerScore:   d.ManagerScore,
		Team:           toRankedDTOs(d.Team),
	}
	if d.TopPerformer != nil {
		top := toRankedDTO(*d.TopPerformer)
		result.TopPerformer = &top
	}

	h.recordRun("team", d.TeamSize, timer)
	timer.Stop(ctx, nil)
	return result, nil
}
