package domain

import (
	"errors"
	"sort"
	"strings"
	"time"

	shared "github.com/felixgeelhaar/perfboard/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle    = errors.New("task title cannot be empty")
	ErrEmptyAssignee = errors.New("task must be assigned to an employee")
)

// Task is a unit of work owned by one employee. Dates are calendar dates
// in DateLayout; an empty string means the date is absent.
type Task struct {
	shared.BaseAggregateRoot
	ID            string
	Title         string
	Description   string
	EmployeeID    string
	ManagerID     string
	AssignedBy    string
	Department    string
	Severity      Severity
	Status        Status
	ReworkCount   int
	AssignedDate  string
	DueDate       string
	CompletedDate string
	UpdatedAt     time.Time
}

// NewTaskParams holds the fields supplied when a task is created.
type NewTaskParams struct {
	ID           string
	Title        string
	Description  string
	EmployeeID   string
	ManagerID    string
	AssignedBy   string
	Department   string
	Severity     Severity
	AssignedDate string
	DueDate      string
}

// NewTaskID generates an identifier such as TSK-1A2B3C4D.
func NewTaskID() string {
	return "TSK-" + strings.ToUpper(uuid.New().String()[:8])
}

// NewTask creates a task in status NEW and records TaskAssigned.
func NewTask(p NewTaskParams) (*Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(p.EmployeeID) == "" {
		return nil, ErrEmptyAssignee
	}
	if _, err := ParseSeverity(string(p.Severity)); err != nil {
		return nil, err
	}
	assigned, err := NormalizeDate(p.AssignedDate)
	if err != nil {
		return nil, err
	}
	due, err := NormalizeDate(p.DueDate)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = NewTaskID()
	}

	t := &Task{
		ID:           id,
		Title:        title,
		Description:  strings.TrimSpace(p.Description),
		EmployeeID:   strings.TrimSpace(p.EmployeeID),
		ManagerID:    strings.TrimSpace(p.ManagerID),
		AssignedBy:   strings.TrimSpace(p.AssignedBy),
		Department:   strings.TrimSpace(p.Department),
		Severity:     p.Severity,
		Status:       StatusNew,
		AssignedDate: assigned,
		DueDate:      due,
		UpdatedAt:    time.Now().UTC(),
	}
	t.AddDomainEvent(NewTaskAssigned(t))
	return t, nil
}

// ChangeStatus moves the task to status. Sending a task back for rework
// counts against its quality. Entering a success status stamps today as the
// completion date and any other status clears it.
func (t *Task) ChangeStatus(status Status, today time.Time) {
	from := t.Status
	if status == StatusRework {
		t.ReworkCount++
	}
	if status.IsSuccess() {
		t.CompletedDate = FormatDate(today)
	} else {
		t.CompletedDate = ""
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	t.AddDomainEvent(NewTaskStatusChanged(t, from))
}

// Reassign hands the task to another employee. A submission that has not
// been reviewed yet goes back to IN_PROGRESS for the new assignee.
func (t *Task) Reassign(employeeID, assignedBy, newDueDate, reason string) error {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return ErrEmptyAssignee
	}
	due, err := NormalizeDate(newDueDate)
	if err != nil {
		return err
	}

	from := t.EmployeeID
	t.EmployeeID = employeeID
	t.AssignedBy = assignedBy
	if due != "" {
		t.DueDate = due
	}
	if t.Status == StatusSubmitted {
		t.Status = StatusInProgress
	}
	t.UpdatedAt = time.Now().UTC()
	t.AddDomainEvent(NewTaskReassigned(t, from, strings.TrimSpace(reason)))
	return nil
}

// VisibleTo reports whether viewer may see the task.
func (t *Task) VisibleTo(viewer *User) bool {
	switch {
	case viewer.Role.SeesEverything():
		return true
	case viewer.Role == RoleManager:
		return t.ManagerID == viewer.ID || t.EmployeeID == viewer.ID
	default:
		return t.EmployeeID == viewer.ID
	}
}

// SortTasksByDueDate orders tasks by due date with undated tasks last,
// then by ID.
func SortTasksByDueDate(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if (a.DueDate == "") != (b.DueDate == "") {
			return b.DueDate == ""
		}
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		return a.ID < b.ID
	})
}
