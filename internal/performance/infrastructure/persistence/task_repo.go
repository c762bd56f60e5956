package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
)

const selectTaskColumns = `
	SELECT id, title, description, employee_id, manager_id, assigned_by, department,
	       severity, status, rework_count, assigned_date, due_date, completed_date, updated_at
	FROM tasks`

// SQLTaskRepository implements domain.TaskRepository on any database.Connection.
type SQLTaskRepository struct {
	conn database.Connection
}

// NewSQLTaskRepository creates a new SQL task repository.
func NewSQLTaskRepository(conn database.Connection) *SQLTaskRepository {
	return &SQLTaskRepository{conn: conn}
}

// Create inserts a new task. An existing ID fails with domain.ErrTaskExists.
func (r *SQLTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO tasks (
			id, title, description, employee_id, manager_id, assigned_by, department,
			severity, status, rework_count, assigned_date, due_date, completed_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.EmployeeID, nullable(t.ManagerID), nullable(t.AssignedBy), t.Department,
		t.Severity.String(), t.Status.String(), t.ReworkCount,
		nullable(t.AssignedDate), nullable(t.DueDate), nullable(t.CompletedDate), formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrTaskExists, t.ID)
		}
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

// Save updates an existing task.
func (r *SQLTaskRepository) Save(ctx context.Context, t *domain.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, employee_id = ?, manager_id = ?, assigned_by = ?,
		    department = ?, severity = ?, status = ?, rework_count = ?,
		    assigned_date = ?, due_date = ?, completed_date = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, t.EmployeeID, nullable(t.ManagerID), nullable(t.AssignedBy),
		t.Department, t.Severity.String(), t.Status.String(), t.ReworkCount,
		nullable(t.AssignedDate), nullable(t.DueDate), nullable(t.CompletedDate), formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, t.ID)
	}
	return nil
}

// FindByID returns the task with id, or domain.ErrTaskNotFound.
func (r *SQLTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	t, err := scanTask(exec.QueryRow(ctx, selectTaskColumns+` WHERE id = ?`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return nil, err
	}
	return t, nil
}

// FindAll returns every task ordered by ID.
func (r *SQLTaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, selectTaskColumns+` ORDER BY id`)
}

// FindByEmployees returns the tasks assigned to any of employeeIDs.
func (r *SQLTaskRepository) FindByEmployees(ctx context.Context, employeeIDs []string) ([]*domain.Task, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	query, args, err := database.In(r.conn.Driver(),
		selectTaskColumns+` WHERE employee_id IN (?) ORDER BY id`, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("expand employee ids: %w", err)
	}
	return r.query(ctx, query, args...)
}

// FindByManagerOrEmployee returns the tasks managed by or assigned to userID.
func (r *SQLTaskRepository) FindByManagerOrEmployee(ctx context.Context, userID string) ([]*domain.Task, error) {
	return r.query(ctx, selectTaskColumns+` WHERE manager_id = ? OR employee_id = ? ORDER BY id`, userID, userID)
}

func (r *SQLTaskRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(row database.Row) (*domain.Task, error) {
	var (
		t                               domain.Task
		severity, status, updatedAt     string
		managerID, assignedBy           sql.NullString
		assignedDate, dueDate, doneDate sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.EmployeeID, &managerID, &assignedBy, &t.Department,
		&severity, &status, &t.ReworkCount, &assignedDate, &dueDate, &doneDate, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ManagerID = managerID.String
	t.AssignedBy = assignedBy.String
	t.Severity = domain.Severity(severity)
	t.Status = domain.Status(status)
	t.AssignedDate = assignedDate.String
	t.DueDate = dueDate.String
	t.CompletedDate = doneDate.String
	t.UpdatedAt = parseTimestamp(updatedAt)
	return &t, nil
}
