package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
)

type rankEmployeesInput struct {
	Department string `json:"department,omitempty"`
	ActiveOnly bool   `json:"active_only,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type rankManagersInput struct {
	ActiveOnly bool `json:"active_only,omitempty"`
	Limit      int  `json:"limit,omitempty"`
}

type scoreInput struct {
	UserID string `json:"user_id" jsonschema:"required"`
}

type reportInput struct {
	TopEmployees int `json:"top_employees,omitempty"`
}

type teamDashboardInput struct {
	ManagerID string `json:"manager_id,omitempty"`
}

func (t tools) rankEmployees(ctx context.Context, input rankEmployeesInput) (*queries.RankingsDTO, error) {
	if err := requireDatabase(t.app.EmployeeRankingsHandler != nil, "ranking"); err != nil {
		return nil, err
	}
	return t.app.EmployeeRankingsHandler.Handle(ctx, queries.GetEmployeeRankingsQuery{
		Department: input.Department,
		ActiveOnly: input.ActiveOnly,
		Limit:      input.Limit,
	})
}

func (t tools) rankManagers(ctx context.Context, input rankManagersInput) (*queries.RankingsDTO, error) {
	if err := requireDatabase(t.app.ManagerRankingsHandler != nil, "ranking"); err != nil {
		return nil, err
	}
	return t.app.ManagerRankingsHandler.Handle(ctx, queries.GetManagerRankingsQuery{
		ActiveOnly: input.ActiveOnly,
		Limit:      input.Limit,
	})
}

func (t tools) score(ctx context.Context, input scoreInput) (*queries.SubjectScoreDTO, error) {
	if err := requireDatabase(t.app.SubjectScoreHandler != nil, "scoring"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.UserID) == "" {
		return nil, errors.New("user_id is required")
	}
	return t.app.SubjectScoreHandler.Handle(ctx, queries.GetSubjectScoreQuery{SubjectID: input.UserID})
}

func (t tools) report(ctx context.Context, input reportInput) (*queries.OrgReportDTO, error) {
	if err := requireDatabase(t.app.OrgReportHandler != nil, "reporting"); err != nil {
		return nil, err
	}
	return t.app.OrgReportHandler.Handle(ctx, queries.GetOrgReportQuery{TopEmployees: input.TopEmployees})
}

func (t tools) teamDashboard(ctx context.Context, input teamDashboardInput) (*queries.TeamDashboardDTO, error) {
	if err := requireDatabase(t.app.TeamDashboardHandler != nil, "team dashboard"); err != nil {
		return nil, err
	}
	return t.app.TeamDashboardHandler.Handle(ctx, queries.GetTeamDashboardQuery{ManagerID: t.actorOr(input.ManagerID)})
}

func registerPerformanceTools(srv *mcp.Server, deps ToolDependencies) error {
	t := tools{app: deps.App}

	srv.Tool("performance.rank_employees").
		Description("Rank employees by weighted completion, quality, timeliness and productivity").
		Handler(t.rankEmployees)

	srv.Tool("performance.rank_managers").
		Description("Rank managers by how their direct reports perform").
		Handler(t.rankManagers)

	srv.Tool("performance.score").
		Description("Explain the score of one employee or manager").
		Handler(t.score)

	srv.Tool("performance.report").
		Description("Organisation report: department completion, workload, leaders, top employees and managers").
		Handler(t.report)

	srv.Tool("performance.team_dashboard").
		Description("Dashboard for a manager's team (defaults to the acting user)").
		Handler(t.teamDashboard)

	return nil
}
