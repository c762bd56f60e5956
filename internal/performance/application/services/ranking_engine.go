package services

import (
	"sort"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
)

// RankedSubject is a scored copy of a user.
type RankedSubject struct {
	User  domain.User
	Score float64
	Rank  int
}

// RankingEngine orders employees and managers by score.
type RankingEngine struct {
	scoring *ScoringEngine
}

// NewRankingEngine creates a ranking engine on top of scoring.
func NewRankingEngine(scoring *ScoringEngine) *RankingEngine {
	return &RankingEngine{scoring: scoring}
}

// RankEmployees scores every employee and ranks them, best first. Ties keep
// their input order.
func (e *RankingEngine) RankEmployees(employees []*domain.User, tasks []*domain.Task) []RankedSubject {
	ranked := make([]RankedSubject, 0, len(employees))
	for _, emp := range employees {
		ranked = append(ranked, RankedSubject{
			User:  copyUser(emp),
			Score: e.scoring.ScoreEmployee(tasks, emp.ID),
		})
	}
	return assignRanks(ranked)
}

// RankManagers scores every manager over their direct reports among
// allEmployees and ranks them, best first.
func (e *RankingEngine) RankManagers(managers []*domain.User, tasks []*domain.Task, allEmployees []*domain.User) []RankedSubject {
	ranked := make([]RankedSubject, 0, len(managers))
	for _, mgr := range managers {
		team := domain.DirectReports(mgr.ID, allEmployees)
		ranked = append(ranked, RankedSubject{
			User:  copyUser(mgr),
			Score: e.scoring.ScoreManager(tasks, mgr.ID, team),
		})
	}
	return assignRanks(ranked)
}

// TopPerformer returns the first ranked subject, or nil for an empty list.
func TopPerformer(ranked []RankedSubject) *RankedSubject {
	if len(ranked) == 0 {
		return nil
	}
	top := ranked[0]
	return &top
}

// Top returns the first n ranked subjects. n <= 0 means all of them.
func Top(ranked []RankedSubject, n int) []RankedSubject {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

func assignRanks(ranked []RankedSubject) []RankedSubject {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// copyUser detaches the subject from the caller's aggregate so results
// never alias pending domain events.
func copyUser(u *domain.User) domain.User {
	return domain.User{
		ID:         u.ID,
		Name:       u.Name,
		Role:       u.Role,
		Department: u.Department,
		ManagerID:  u.ManagerID,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
	}
}
