package services

import (
	"math"
	"sort"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
)

// DepartmentCompletion is the completion index of one department's employees.
type DepartmentCompletion struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Index      int    `json:"index"`
}

// DepartmentWorkload counts the tasks owned by one department.
type DepartmentWorkload struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Pending    int    `json:"pending"`
}

// DepartmentTopPerformer is the best-ranked employee of a department.
type DepartmentTopPerformer struct {
	Department string
	Top        RankedSubject
}

// OrgStats summarises every task in the organisation.
type OrgStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overall   int `json:"overall"`
}

// TeamDashboard summarises a manager's team.
type TeamDashboard struct {
	ManagerID      string
	TeamSize       int
	TotalTasks     int
	CompletionRate int
	TotalRework    int
	ManagerScore   float64
	Team           []RankedSubject
	TopPerformer   *RankedSubject
}

// ReportBuilder aggregates scores and counts per department and organisation.
type ReportBuilder struct {
	ranking *RankingEngine
	scoring *ScoringEngine
}

// NewReportBuilder creates a report builder.
func NewReportBuilder(scoring *ScoringEngine, ranking *RankingEngine) *ReportBuilder {
	return &ReportBuilder{scoring: scoring, ranking: ranking}
}

// DepartmentCompletion computes the completion index of each department
// over the tasks of its employees.
func (b *ReportBuilder) DepartmentCompletion(users []*domain.User, tasks []*domain.Task) []DepartmentCompletion {
	var out []DepartmentCompletion
	for _, dept := range departments(users) {
		employees := domain.FilterUsers(users, func(u *domain.User) bool {
			return u.Department == dept && u.IsEmployee()
		})
		total, completed := countOwned(tasks, ids(employees))
		out = append(out, DepartmentCompletion{
			Department: dept,
			Total:      total,
			Completed:  completed,
			Index:      roundedPercent(completed, total),
		})
	}
	return out
}

// DepartmentWorkload counts the tasks owned by users of each department,
// whatever their role.
func (b *ReportBuilder) DepartmentWorkload(users []*domain.User, tasks []*domain.Task) []DepartmentWorkload {
	var out []DepartmentWorkload
	for _, dept := range departments(users) {
		members := domain.FilterUsers(users, func(u *domain.User) bool {
			return u.Department == dept
		})
		owners := ids(members)
		w := DepartmentWorkload{Department: dept}
		for _, t := range tasks {
			if _, ok := owners[t.EmployeeID]; !ok {
				continue
			}
			w.Total++
			if t.Status.IsSuccess() {
				w.Completed++
			}
			if t.Status.IsPending() {
				w.Pending++
			}
		}
		out = append(out, w)
	}
	return out
}

// DepartmentTopPerformers returns the rank-1 employee of every department
// that has employees.
func (b *ReportBuilder) DepartmentTopPerformers(users []*domain.User, tasks []*domain.Task) []DepartmentTopPerformer {
	var out []DepartmentTopPerformer
	for _, dept := range departments(users) {
		employees := domain.FilterUsers(users, func(u *domain.User) bool {
			return u.Department == dept && u.IsEmployee()
		})
		top := TopPerformer(b.ranking.RankEmployees(employees, tasks))
		if top == nil {
			continue
		}
		out = append(out, DepartmentTopPerformer{Department: dept, Top: *top})
	}
	return out
}

// OrgStats counts every task.
func (b *ReportBuilder) OrgStats(tasks []*domain.Task) OrgStats {
	var s OrgStats
	for _, t := range tasks {
		s.Total++
		if t.Status.IsSuccess() {
			s.Completed++
		}
		if t.Status.IsPending() {
			s.Pending++
		}
	}
	s.Overall = roundedPercent(s.Completed, s.Total)
	return s
}

// TeamDashboard summarises the direct reports of managerID.
func (b *ReportBuilder) TeamDashboard(managerID string, users []*domain.User, tasks []*domain.Task) TeamDashboard {
	team := domain.FilterUsers(users, func(u *domain.User) bool {
		return u.ManagerID != "" && u.ManagerID == managerID
	})
	teamIDs := ids(team)

	d := TeamDashboard{ManagerID: managerID, TeamSize: len(team)}
	var completed int
	for _, t := range tasks {
		if _, ok := teamIDs[t.EmployeeID]; !ok {
			continue
		}
		d.TotalTasks++
		d.TotalRework += t.ReworkCount
		if t.Status.IsSuccess() {
			completed++
		}
	}
	d.CompletionRate = roundedPercent(completed, d.TotalTasks)
	d.ManagerScore = b.scoring.ScoreManager(tasks, managerID, domain.DirectReports(managerID, team))
	d.Team = b.ranking.RankEmployees(team, tasks)
	d.TopPerformer = TopPerformer(d.Team)
	return d
}

// departments returns the distinct non-empty departments, sorted by name.
func departments(users []*domain.User) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range users {
		if u.Department == "" {
			continue
		}
		if _, ok := seen[u.Department]; ok {
			continue
		}
		seen[u.Department] = struct{}{}
		out = append(out, u.Department)
	}
	sort.Strings(out)
	return out
}

func ids(users []*domain.User) map[string]struct{} {
	set := make(map[string]struct{}, len(users))
	for _, u := range users {
		set[u.ID] = struct{}{}
	}
	return set
}

func countOwned(tasks []*domain.Task, owners map[string]struct{}) (total, completed int) {
	for _, t := range tasks {
		if _, ok := owners[t.EmployeeID]; !ok {
			continue
		}
		total++
		if t.Status.IsSuccess() {
			completed++
		}
	}
	return total, completed
}

func roundedPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
