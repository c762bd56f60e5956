package queries

import (
	"github.com/felixgeelhaar/perfboard/internal/performance/application/services"
	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
)

// UserDTO is a data transfer object for users.
type UserDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	ManagerID  string `json:"manager_id,omitempty"`
	Active     bool   `json:"active"`
}

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	EmployeeID    string `json:"employee_id"`
	ManagerID     string `json:"manager_id,omitempty"`
	AssignedBy    string `json:"assigned_by,omitempty"`
	Department    string `json:"department"`
	Severity      string `json:"severity"`
	Status        string `json:"status"`
	ReworkCount   int    `json:"rework_count"`
	AssignedDate  string `json:"assigned_date,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	CompletedDate string `json:"completed_date,omitempty"`
}

// RankedDTO is one row of a ranking.
type RankedDTO struct {
	Rank       int     `json:"rank"`
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	ManagerID  string  `json:"manager_id,omitempty"`
	Score      float64 `json:"score"`
}

// RankingsDTO is a ranked list and its leader.
type RankingsDTO struct {
	Subjects     []RankedDTO `json:"subjects"`
	TopPerformer *RankedDTO  `json:"top_performer,omitempty"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Role:       u.Role.String(),
		Department: u.Department,
		ManagerID:  u.ManagerID,
		Active:     u.Active,
	}
}

func toUserDTOs(users []*domain.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos
}

func toTaskDTOs(tasks []*domain.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = TaskDTO{
			ID:            t.ID,
			Title:         t.Title,
			Description:   t.Description,
			EmployeeID:    t.EmployeeID,
			ManagerID:     t.ManagerID,
			AssignedBy:    t.AssignedBy,
			Department:    t.Department,
			Severity:      t.Severity.String(),
			Status:        t.Status.String(),
			ReworkCount:   t.ReworkCount,
			AssignedDate:  t.AssignedDate,
			DueDate:       t.DueDate,
			CompletedDate: t.CompletedDate,
		}
	}
	return dtos
}

func toRankedDTO(r services.RankedSubject) RankedDTO {
	return RankedDTO{
		Rank:       r.Rank,
		ID:         r.User.ID,
		Name:       r.User.Name,
		Role:       r.User.Role.String(),
		Department: r.User.Department,
		ManagerID:  r.User.ManagerID,
		Score:      r.Score,
	}
}

func toRankedDTOs(ranked []services.RankedSubject) []RankedDTO {
	dtos := make([]RankedDTO, len(ranked))
	for i, r := range ranked {
		dtos[i] = toRankedDTO(r)
	}
	return dtos
}

// toRankingsDTO keeps the first limit subjects. The top performer is taken
// from the full ranking.
func toRankingsDTO(ranked []services.RankedSubject, limit int) RankingsDTO {
	out := RankingsDTO{Subjects: toRankedDTOs(services.Top(ranked, limit))}
	if top := services.TopPerformer(ranked); top != nil {
		dto := toRankedDTO(*top)
		out.TopPerformer = &dto
	}
	return out
}
