package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/performance/application/services"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// GetSubjectScoreQuery asks for the score breakdown of one user.
type GetSubjectScoreQuery struct {
	SubjectID string
}

// SubjectScoreDTO is the score of one user and how it was reached.
type SubjectScoreDTO struct {
	Subject  UserDTO                     `json:"subject"`
	Formula  string                      `json:"formula"`
	Score    float64                     `json:"score"`
	Employee *services.EmployeeBreakdown `json:"employee,omitempty"`
	Manager  *services.ManagerBreakdown  `json:"manager,omitempty"`
}

// GetSubjectScoreHandler handles the GetSubjectScoreQuery.
type GetSubjectScoreHandler struct {
	snapshot
	instrumented
	scoring *services.ScoringEngine
}

// NewGetSubjectScoreHandler creates a new GetSubjectScoreHandler.
func NewGetSubjectScoreHandler(userRepo domain.UserRepository, taskRepo domain.TaskRepository, scoring *services.ScoringEngine) *GetSubjectScoreHandler {
	return &GetSubjectScoreHandler{
		snapshot:     snapshot{userRepo: userRepo, taskRepo: taskRepo},
		instrumented: newInstrumented(),
		scoring:      scoring,
	}
}

// WithMetrics sets the metrics collector.
func (h *GetSubjectScoreHandler) WithMetrics(metrics observability.Metrics) *GetSubjectScoreHandler {
	h.metrics = metrics
	return h
}

// Handle scores employees with the employee formula and managers over their
// direct reports. Other roles have no score.
func (h *GetSubjectScoreHandler) Handle(ctx context.Context, query GetSubjectScoreQuery) (*SubjectScoreDTO, error) {
	subject, err := h.userRepo.FindByID(ctx, query.SubjectID)
	if err != nil {
		return nil, err
	}

	timer := h.timer("performance.score")
	result := &SubjectScoreDTO{Subject: toUserDTO(subject)}

	switch subject.Role {
	case domain.RoleEmployee:
		tasks, err := h.tasksOf(ctx, []*domain.User{subject})
		if err != nil {
			timer.Stop(ctx, err)
			return nil, err
		}
		b := h.scoring.ExplainEmployee(tasks, subject.ID)
		result.Formula = "employee"
		result.Score = b.Score
		result.Employee = &b

	case domain.RoleManager:
		employees, err := h.userRepo.FindAll(ctx, domain.UserFilter{Role: domain.RoleEmployee})
		if err != nil {
			timer.Stop(ctx, err)
			return nil, err
		}
		team := domain.FilterUsers(employees, func(u *domain.User) bool { return u.ManagerID == subject.ID })
		tasks, err := h.tasksOf(ctx, team)
		if err != nil {
			timer.Stop(ctx, err)
			return nil, err
		}
		b := h.scoring.ExplainManager(tasks, subject.ID, domain.DirectReports(subject.ID, team))
		result.Formula = "manager"
		result.Score = b.Score
		result.Manager = &b

	default:
		err := fmt.Errorf("%w: %s is %s", domain.ErrNotScorable, subject.ID, subject.Role)
		timer.Stop(ctx, err)
		return nil, err
	}

	h.recordRun(result.Formula, 1, timer)
	timer.Stop(ctx, nil)
	return result, nil
}
