package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/perfboard/internal/performance/application/services"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type engines struct {
	scoring *services.ScoringEngine
	ranking *services.RankingEngine
	reports *services.ReportBuilder
}

func newEngines() engines {
	scoring := services.NewScoringEngine(services.DefaultScoringConfig())
	ranking := services.NewRankingEngine(scoring)
	return engines{scoring: scoring, ranking: ranking, reports: services.NewReportBuilder(scoring, ranking)}
}

func TestGetEmployeeRankingsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	e := newEngines()

	setup := func() (*mockUserRepo, *mockTaskRepo) {
		userRepo := new(mockUserRepo)
		taskRepo := new(mockTaskRepo)
		userRepo.On("FindAll", mock.Anything, domain.UserFilter{Role: domain.RoleEmployee}).
			Return(usersWithRole(domain.RoleEmployee), nil)
		taskRepo.On("FindByEmployees", mock.Anything, []string{"EMP001", "EMP002", "EMP003"}).
			Return(fixtureTasks(), nil)
		return userRepo, taskRepo
	}

	t.Run("ranks best first", func(t *testing.T) {
		userRepo, taskRepo := setup()
		metrics := observability.NewInMemoryMetrics()
		handler := NewGetEmployeeRankingsHandler(userRepo, taskRepo, e.ranking).WithMetrics(metrics)

		result, err := handler.Handle(ctx, GetEmployeeRankingsQuery{})

		require.NoError(t, err)
		assert.Equal(t, []string{"EMP001", "EMP002", "EMP003"}, subjectIDs(result.Subjects))
		assert.Equal(t, 88.0, result.Subjects[0].Score)
		assert.Equal(t, 21.5, result.Subjects[1].Score)
		assert.Equal(t, 0.0, result.Subjects[2].Score)
		assert.Equal(t, 3, result.Subjects[2].Rank)
		require.NotNil(t, result.TopPerformer)
		assert.Equal(t, "EMP001", result.TopPerformer.ID)

		tag := observability.T("kind", "employees")
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricScoringRuns, tag))
		assert.Equal(t, []float64{3}, metrics.GetHistogram(observability.MetricSubjectsRanked, tag))
		userRepo.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
	})

	t.Run("limit keeps top performer", func(t *testing.T) {
		userRepo, taskRepo := setup()

		result, err := NewGetEmployeeRankingsHandler(userRepo, taskRepo, e.ranking).
			Handle(ctx, GetEmployeeRankingsQuery{Limit: 1})

		require.NoError(t, err)
		assert.Equal(t, []string{"EMP001"}, subjectIDs(result.Subjects))
		assert.Equal(t, "EMP001", result.TopPerformer.ID)
	})

	t.Run("no employees skips task lookup", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		taskRepo := new(mockTaskRepo)
		filter := domain.UserFilter{Role: domain.RoleEmployee, Department: "Legal"}
		userRepo.On("FindAll", mock.Anything, filter).Return([]*domain.User{}, nil)

		result, err := NewGetEmployeeRankingsHandler(userRepo, taskRepo, e.ranking).
			Handle(ctx, GetEmployeeRankingsQuery{Department: "Legal"})

		require.NoError(t, err)
		assert.Empty(t, result.Subjects)
		assert.Nil(t, result.TopPerformer)
		taskRepo.AssertNotCalled(t, "FindByEmployees", mock.Anything, mock.Anything)
	})

	t.Run("repository error", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindAll", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := NewGetEmployeeRankingsHandler(userRepo, new(mockTaskRepo), e.ranking).
			Handle(ctx, GetEmployeeRankingsQuery{})

		assert.EqualError(t, err, "db down")
	})
}

func TestGetManagerRankingsHandler_Handle(t *testing.T) {
	e := newEngines()
	userRepo := new(mockUserRepo)
	taskRepo := new(mockTaskRepo)
	userRepo.On("FindAll", mock.Anything, domain.UserFilter{Role: domain.RoleManager}).
		Return(usersWithRole(domain.RoleManager), nil)
	userRepo.On("FindAll", mock.Anything, domain.UserFilter{Role: domain.RoleEmployee}).
		Return(usersWithRole(domain.RoleEmployee), nil)
	taskRepo.On("FindByEmployees", mock.Anything, mock.Anything).Return(fixtureTasks(), nil)

	result, err := NewGetManagerRankingsHandler(userRepo, taskRepo, e.ranking).
		Handle(context.Background(), GetManagerRankingsQuery{})

	require.NoError(t, err)
	assert.Equal(t, []string{"MGR001", "MGR002"}, subjectIDs(result.Subjects))
	assert.Equal(t, 75.5, result.Subjects[0].Score)
	assert.Equal(t, 14.25, result.Subjects[1].Score)
	assert.Equal(t, "MGR001", result.TopPerformer.ID)
}

func TestGetSubjectScoreHandler_Handle(t *testing.T) {
	ctx := context.Background()
	e := newEngines()

	t.Run("employee", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		taskRepo := new(mockTaskRepo)
		userRepo.On("FindByID", mock.Anything, "EMP002").Return(userByID("EMP002"), nil)
		taskRepo.On("FindByEmployees", mock.Anything, []string{"EMP002"}).Return(fixtureTasks()[2:4], nil)

		result, err := NewGetSubjectScoreHandler(userRepo, taskRepo, e.scoring).
			Handle(ctx, GetSubjectScoreQuery{SubjectID: "EMP002"})

		require.NoError(t, err)
		assert.Equal(t, "employee", result.Formula)
		assert.Equal(t, 21.5, result.Score)
		require.NotNil(t, result.Employee)
		assert.Nil(t, result.Manager)
		assert.Equal(t, 2, result.Employee.Total)
		assert.Equal(t, 1, result.Employee.Completed)
		assert.Equal(t, "completion=20.00 quality=0.00 timeliness=0.00 productivity=1.50", result.Employee.Explanation)
	})

	t.Run("manager", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		taskRepo := new(mockTaskRepo)
		userRepo.On("FindByID", mock.Anything, "MGR001").Return(userByID("MGR001"), nil)
		userRepo.On("FindAll", mock.Anything, domain.UserFilter{Role: domain.RoleEmployee}).
			Return(usersWithRole(domain.RoleEmployee), nil)
		taskRepo.On("FindByEmployees", mock.Anything, []string{"EMP001", "EMP002"}).Return(fixtureTasks()[:4], nil)

		result, err := NewGetSubjectScoreHandler(userRepo, taskRepo, e.scoring).
			Handle(ctx, GetSubjectScoreQuery{SubjectID: "MGR001"})

		require.NoError(t, err)
		assert.Equal(t, "manager", result.Formula)
		assert.Equal(t, 75.5, result.Score)
		require.NotNil(t, result.Manager)
		assert.Equal(t, 2, result.Manager.TeamSize)
		assert.Equal(t, 1, result.Manager.InReview)
	})

	t.Run("admin is not scorable", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindByID", mock.Anything, "ADMIN001").Return(userByID("ADMIN001"), nil)

		_, err := NewGetSubjectScoreHandler(userRepo, new(mockTaskRepo), e.scoring).
			Handle(ctx, GetSubjectScoreQuery{SubjectID: "ADMIN001"})

		assert.ErrorIs(t, err, domain.ErrNotScorable)
	})

	t.Run("unknown subject", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		userRepo.On("FindByID", mock.Anything, "EMP999").Return(nil, domain.ErrUserNotFound)

		_, err := NewGetSubjectScoreHandler(userRepo, new(mockTaskRepo), e.scoring).
			Handle(ctx, GetSubjectScoreQuery{SubjectID: "EMP999"})

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestGetOrgReportHandler_Handle(t *testing.T) {
	e := newEngines()
	userRepo := new(mockUserRepo)
	taskRepo := new(mockTaskRepo)
	userRepo.On("FindAll", mock.Anything, domain.UserFilter{}).Return(fixtureUsers(), nil)
	taskRepo.On("FindAll", mock.Anything).Return(fixtureTasks(), nil)

	report, err := NewGetOrgReportHandler(userRepo, taskRepo, e.ranking, e.reports).
		Handle(context.Background(), GetOrgReportQuery{TopEmployees: 2})

	require.NoError(t, err)
	assert.Equal(t, services.OrgStats{Total: 5, Completed: 3, Pending: 2, Overall: 60}, report.Stats)

	require.Len(t, report.DepartmentCompletion, 3)
	assert.Equal(t, "Administration", report.DepartmentCompletion[0].Department)
	assert.Equal(t, 0, report.DepartmentCompletion[0].Total)
	assert.Equal(t, 75, report.DepartmentCompletion[1].Index)
	assert.Equal(t, 0, report.DepartmentCompletion[2].Index)

	require.Len(t, report.DepartmentLeaders, 2)
	assert.Equal(t, "Engineering", report.DepartmentLeaders[0].Department)
	assert.Equal(t, "EMP001", report.DepartmentLeaders[0].Top.ID)
	assert.Equal(t, "EMP003", report.DepartmentLeaders[1].Top.ID)

	assert.Equal(t, []string{"EMP001", "EMP002"}, subjectIDs(report.TopEmployees))
	assert.Equal(t, []string{"MGR001", "MGR002"}, subjectIDs(report.Managers))
}

func TestGetTeamDashboardHandler_Handle(t *testing.T) {
	ctx := context.Background()
	e := newEngines()

	t.Run("summarises direct reports", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		taskRepo := new(mockTaskRepo)
		userRepo.On("FindByID", mock.Anything, "MGR001").Return(userByID("MGR001"), nil)
		userRepo.On("FindAll", mock.Anything, domain.UserFilter{}).Return(fixtureUsers(), nil)
		taskRepo.On("FindByEmployees", mock.Anything, []string{"EMP001", "EMP002"}).Return(fixtureTasks()[:4], nil)

		d, err := NewGetTeamDashboardHandler(userRepo, taskRepo, e.reports).
			Handle(ctx, GetTeamDashboardQuery{ManagerID: "MGR001"})

		require.NoError(t, err)
		assert.Equal(t, "MGR001", d.Manager.ID)
		assert.Equal(t, 2, d.TeamSize)
		assert.Equal(t, 4, d.TotalTasks)
		assert.Equal(t, 75, d.CompletionRate)
		assert.Equal(t, 1, d.TotalRework)
		assert.Equal(t, 75.5, d.ManagerScore)
		assert.Equal(t, []string{"EMP001", "EMP002"}, subjectIDs(d.Team))
		require.NotNil(t, d.TopPerformer)
		assert.Equal(t, "EMP001", d.TopPerformer.ID)
	})

	t.Run("empty team", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		taskRepo := new(mockTaskRepo)
		lonely := &domain.User{ID: "MGR009", Name: "Nobody", Role: domain.RoleManager, Active: true}
		userRepo.On("FindByID", mock.Anything, "MGR009").Return(lonely, nil)
		userRepo.On("FindAll", mock.Anything, domain.UserFilter{}).Return(fixtureUsers(), nil)

		d, err := NewGetTeamDashboardHandler(userRepo, taskRepo, e.reports).
			Handle(ctx, GetTeamDashboardQuery{ManagerID: "MGR009"})

		require.NoError(t, err)
		assert.Zero(t, d.TeamSize)
		assert.Zero(t, d.ManagerScore)
		assert.Nil(t, d.TopPerformer)
		taskRepo.AssertNotCalled(t, "FindByEmployees", mock.Anything, mock.Anything)
	})
}
