// Package seed loads the demo organisation into the user and task stores.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
)

//go:embed demo.json
var demoJSON []byte

type userRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	ManagerID  string `json:"manager_id"`
}

type taskRecord struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	EmployeeID    string `json:"employee_id"`
	ManagerID     string `json:"manager_id"`
	AssignedBy    string `json:"assigned_by"`
	Department    string `json:"department"`
	Severity      string `json:"severity"`
	Status        string `json:"status"`
	ReworkCount   int    `json:"rework_count"`
	AssignedDate  string `json:"assigned_date"`
	DueDate       string `json:"due_date"`
	CompletedDate string `json:"completed_date"`
}

// Dataset is a set of users and tasks ready to be stored.
type Dataset struct {
	Users []*domain.User
	Tasks []*domain.Task
}

// Demo decodes the embedded demo organisation.
func Demo() (*Dataset, error) {
	return Parse(demoJSON)
}

// Parse decodes a dataset and validates roles, severities, statuses and dates.
func Parse(data []byte) (*Dataset, error) {
	var raw struct {
		Users []userRecord `json:"users"`
		Tasks []taskRecord `json:"tasks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}

	now := time.Now().UTC()
	ds := &Dataset{}
	for _, r := range raw.Users {
		role, err := domain.ParseRole(r.Role)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", r.ID, err)
		}
		ds.Users = append(ds.Users, &domain.User{
			ID:         r.ID,
			Name:       r.Name,
			Role:       role,
			Department: r.Department,
			ManagerID:  r.ManagerID,
			Active:     true,
			CreatedAt:  now,
		})
	}

	for _, r := range raw.Tasks {
		t, err := r.toTask(now)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", r.ID, err)
		}
		ds.Tasks = append(ds.Tasks, t)
	}
	return ds, nil
}

func (r taskRecord) toTask(now time.Time) (*domain.Task, error) {
	severity, err := domain.ParseSeverity(r.Severity)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	t := &domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		EmployeeID:  r.EmployeeID,
		ManagerID:   r.ManagerID,
		AssignedBy:  r.AssignedBy,
		Department:  r.Department,
		Severity:    severity,
		Status:      status,
		ReworkCount: r.ReworkCount,
		UpdatedAt:   now,
	}
	dates := []struct {
		in  string
		out *string
	}{
		{r.AssignedDate, &t.AssignedDate},
		{r.DueDate, &t.DueDate},
		{r.CompletedDate, &t.CompletedDate},
	}
	for _, d := range dates {
		if *d.out, err = domain.NormalizeDate(d.in); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Result counts what a load stored and what already existed.
type Result struct {
	UsersCreated int `json:"users_created"`
	UsersSkipped int `json:"users_skipped"`
	TasksCreated int `json:"tasks_created"`
	TasksSkipped int `json:"tasks_skipped"`
}

// Loader stores datasets. Rows whose ID already exists are left untouched,
// so loading twice is safe. Each row is looked up before it is inserted; a
// failed insert would abort a PostgreSQL transaction.
type Loader struct {
	userRepo domain.UserRepository
	taskRepo domain.TaskRepository
	uow      sharedApplication.UnitOfWork
	logger   *slog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(userRepo domain.UserRepository, taskRepo domain.TaskRepository, uow sharedApplication.UnitOfWork, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{userRepo: userRepo, taskRepo: taskRepo, uow: uow, logger: logger}
}

// Load stores ds in a single transaction.
func (l *Loader) Load(ctx context.Context, ds *Dataset) (Result, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, l.uow, func(txCtx context.Context) (Result, error) {
		var res Result
		for _, u := range ds.Users {
			_, err := l.userRepo.FindByID(txCtx, u.ID)
			switch {
			case err == nil:
				res.UsersSkipped++
			case errors.Is(err, domain.ErrUserNotFound):
				if err := l.userRepo.Create(txCtx, u); err != nil {
					return Result{}, err
				}
				res.UsersCreated++
			default:
				return Result{}, err
			}
		}
		for _, t := range ds.Tasks {
			_, err := l.taskRepo.FindByID(txCtx, t.ID)
			switch {
			case err == nil:
				res.TasksSkipped++
			case errors.Is(err, domain.ErrTaskNotFound):
				if err := l.taskRepo.Create(txCtx, t); err != nil {
					return Result{}, err
				}
				res.TasksCreated++
			default:
				return Result{}, err
			}
		}
		l.logger.Info("seed loaded",
			"users_created", res.UsersCreated, "users_skipped", res.UsersSkipped,
			"tasks_created", res.TasksCreated, "tasks_skipped", res.TasksSkipped)
		return res, nil
	})
}
