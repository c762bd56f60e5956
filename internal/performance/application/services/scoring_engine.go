package services

import (
	"fmt"
	"math"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
)

// EmployeeWeights weights the employee sub-metrics. They sum to 1.
type EmployeeWeights struct {
	Completion   float64
	Quality      float64
	Timeliness   float64
	Productivity float64
}

// Sum returns the total weight.
func (w EmployeeWeights) Sum() float64 {
	return w.Completion + w.Quality + w.Timeliness + w.Productivity
}

// ManagerWeights weights the manager sub-metrics. They sum to 1.
type ManagerWeights struct {
	Completion         float64
	LowRework          float64
	ApprovalEfficiency float64
	Stability          float64
}

// Sum returns the total weight.
func (w ManagerWeights) Sum() float64 {
	return w.Completion + w.LowRework + w.ApprovalEfficiency + w.Stability
}

// ScoringConfig tunes the scoring formulas.
type ScoringConfig struct {
	Employee EmployeeWeights
	Manager  ManagerWeights
	// ProductivityTarget is the completed-task count worth full productivity.
	ProductivityTarget float64
	// TeamStability is used until turnover data is tracked.
	TeamStability float64
}

// DefaultScoringConfig returns the standard weighting.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Employee: EmployeeWeights{
			Completion:   0.40,
			Quality:      0.25,
			Timeliness:   0.20,
			Productivity: 0.15,
		},
		Manager: ManagerWeights{
			Completion:         0.35,
			LowRework:          0.30,
			ApprovalEfficiency: 0.20,
			Stability:          0.15,
		},
		ProductivityTarget: 10,
		TeamStability:      95,
	}
}

// EmployeeBreakdown explains an employee score.
type EmployeeBreakdown struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	FirstTimeRight int     `json:"first_time_right"`
	OnTime         int     `json:"on_time"`
	CompletionRate float64 `json:"completion_rate"`
	QualityRate    float64 `json:"quality_rate"`
	TimelinessRate float64 `json:"timeliness_rate"`
	Productivity   float64 `json:"productivity"`
	Score          float64 `json:"score"`
	Explanation    string  `json:"explanation"`
}

// ManagerBreakdown explains a manager score.
type ManagerBreakdown struct {
	TeamSize           int     `json:"team_size"`
	TeamTotal          int     `json:"team_total"`
	TeamCompleted      int     `json:"team_completed"`
	NoRework           int     `json:"no_rework"`
	InReview           int     `json:"in_review"`
	CompletionRate     float64 `json:"completion_rate"`
	LowReworkRate      float64 `json:"low_rework_rate"`
	ApprovalEfficiency float64 `json:"approval_efficiency"`
	TeamStability      float64 `json:"team_stability"`
	Score              float64 `json:"score"`
	Explanation        string  `json:"explanation"`
}

// ScoringEngine turns task snapshots into 0-100 performance scores.
// It holds no state beyond its configuration and is safe for concurrent use.
type ScoringEngine struct {
	config ScoringConfig
}

// NewScoringEngine creates an engine with the given configuration.
func NewScoringEngine(cfg ScoringConfig) *ScoringEngine {
	return &ScoringEngine{config: cfg}
}

// Config returns the engine configuration.
func (e *ScoringEngine) Config() ScoringConfig {
	return e.config
}

// ScoreEmployee scores the tasks owned by employeeID.
func (e *ScoringEngine) ScoreEmployee(tasks []*domain.Task, employeeID string) float64 {
	return e.ExplainEmployee(tasks, employeeID).Score
}

// ExplainEmployee scores the tasks owned by employeeID and reports the
// sub-metrics behind the score.
func (e *ScoringEngine) ExplainEmployee(tasks []*domain.Task, employeeID string) EmployeeBreakdown {
	var b EmployeeBreakdown
	for _, t := range tasks {
		if t == nil || t.EmployeeID != employeeID {
			continue
		}
		b.Total++
		if !t.Status.IsSuccess() {
			continue
		}
		b.Completed++
		if t.ReworkCount == 0 {
			b.FirstTimeRight++
		}
		if domain.OnOrBefore(t.CompletedDate, t.DueDate) {
			b.OnTime++
		}
	}
	if b.Total == 0 {
		b.Explanation = "no tasks"
		return b
	}

	w := e.config.Employee
	b.CompletionRate = percent(b.Completed, b.Total)
	b.QualityRate = percent(b.FirstTimeRight, b.Completed)
	b.TimelinessRate = percent(b.OnTime, b.Completed)
	if e.config.ProductivityTarget > 0 {
		b.Productivity = math.Min(float64(b.Completed)/e.config.ProductivityTarget*100, 100)
	}

	b.Score = round2(b.CompletionRate*w.Completion +
		b.QualityRate*w.Quality +
		b.TimelinessRate*w.Timeliness +
		b.Productivity*w.Productivity)

	b.Explanation = fmt.Sprintf(
		"completion=%.2f quality=%.2f timeliness=%.2f productivity=%.2f",
		b.CompletionRate*w.Completion,
		b.QualityRate*w.Quality,
		b.TimelinessRate*w.Timeliness,
		b.Productivity*w.Productivity,
	)
	return b
}

// ScoreManager scores a manager by the tasks of their team. The
// manager's own tasks do not count.
func (e *ScoringEngine) ScoreManager(tasks []*domain.Task, managerID string, teamMemberIDs []string) float64 {
	return e.ExplainManager(tasks, managerID, teamMemberIDs).Score
}

// ExplainManager scores a manager and reports the sub-metrics behind the
// score.
func (e *ScoringEngine) ExplainManager(tasks []*domain.Task, managerID string, teamMemberIDs []string) ManagerBreakdown {
	b := ManagerBreakdown{TeamSize: len(teamMemberIDs)}
	if len(teamMemberIDs) == 0 {
		b.Explanation = "no team"
		return b
	}

	team := make(map[string]struct{}, len(teamMemberIDs))
	for _, id := range teamMemberIDs {
		if id == managerID {
			continue
		}
		team[id] = struct{}{}
	}

	for _, t := range tasks {
		if t == nil {
			continue
		}
		if _, ok := team[t.EmployeeID]; !ok {
			continue
		}
		b.TeamTotal++
		switch {
		case t.Status.IsSuccess():
			b.TeamCompleted++
			if t.ReworkCount == 0 {
				b.NoRework++
			}
		case t.Status.IsInReview():
			b.InReview++
		}
	}
	if b.TeamTotal == 0 {
		b.Explanation = "no team tasks"
		return b
	}

	w := e.config.Manager
	b.CompletionRate = percent(b.TeamCompleted, b.TeamTotal)
	b.LowReworkRate = percent(b.NoRework, b.TeamCompleted)
	b.ApprovalEfficiency = percent(b.TeamCompleted, max(b.TeamCompleted+b.InReview, 1))
	b.TeamStability = e.config.TeamStability

	b.Score = round2(b.CompletionRate*w.Completion +
		b.LowReworkRate*w.LowRework +
		b.ApprovalEfficiency*w.ApprovalEfficiency +
		b.TeamStability*w.Stability)

	b.Explanation = fmt.Sprintf(
		"completion=%.2f low_rework=%.2f approval=%.2f stability=%.2f",
		b.CompletionRate*w.Completion,
		b.LowReworkRate*w.LowRework,
		b.ApprovalEfficiency*w.ApprovalEfficiency,
		b.TeamStability*w.Stability,
	)
	return b
}

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// round2 keeps two decimal places, rounding half away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
