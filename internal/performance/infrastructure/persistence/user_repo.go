package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
)

const selectUserColumns = `
	SELECT id, name, role, department, manager_id, active, created_at
	FROM users`

// SQLUserRepository implements domain.UserRepository on any database.Connection.
type SQLUserRepository struct {
	conn database.Connection
}

// NewSQLUserRepository creates a new SQL user repository.
func NewSQLUserRepository(conn database.Connection) *SQLUserRepository {
	return &SQLUserRepository{conn: conn}
}

// Create inserts a new user. An existing ID fails with domain.ErrUserExists.
func (r *SQLUserRepository) Create(ctx context.Context, u *domain.User) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO users (id, name, role, department, manager_id, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Role.String(), u.Department, nullable(u.ManagerID), u.Active, formatTimestamp(u.CreatedAt),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrUserExists, u.ID)
		}
		return fmt.Errorf("insert user %s: %w", u.ID, err)
	}
	return nil
}

// Save updates an existing user.
func (r *SQLUserRepository) Save(ctx context.Context, u *domain.User) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	res, err := exec.Exec(ctx, `
		UPDATE users
		SET name = ?, role = ?, department = ?, manager_id = ?, active = ?
		WHERE id = ?`,
		u.Name, u.Role.String(), u.Department, nullable(u.ManagerID), u.Active, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, u.ID)
	}
	return nil
}

// FindByID returns the user with id, or domain.ErrUserNotFound.
func (r *SQLUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	u, err := scanUser(exec.QueryRow(ctx, selectUserColumns+` WHERE id = ?`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
		}
		return nil, err
	}
	return u, nil
}

// FindAll returns the users matching filter, ordered by ID.
func (r *SQLUserRepository) FindAll(ctx context.Context, filter domain.UserFilter) ([]*domain.User, error) {
	var (
		where []string
		args  []any
	)
	if filter.Role != "" {
		where = append(where, "role = ?")
		args = append(args, filter.Role.String())
	}
	if filter.Department != "" {
		where = append(where, "department = ?")
		args = append(args, filter.Department)
	}
	if filter.ActiveOnly {
		where = append(where, "active = ?")
		args = append(args, true)
	}

	query := selectUserColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row database.Row) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		managerID sql.NullString
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Name, &role, &u.Department, &managerID, &u.Active, &createdAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.ManagerID = managerID.String
	u.CreatedAt = parseTimestamp(createdAt)
	return &u, nil
}
