package app

import (
	"fmt"

	"github.com/felixgeelhaar/perfboard/internal/performance/domain"
	"github.com/felixgeelhaar/perfboard/internal/performance/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/perfboard/internal/shared/application"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates repositories based on the database driver.
// Every repository writes portable SQL through database.Connection, so
// the factory only has to reject drivers it does not know.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) (*RepositoryFactory, error) {
	switch conn.Driver() {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver())
	}
	return &RepositoryFactory{conn: conn, driver: conn.Driver()}, nil
}

// Driver returns the driver the repositories run on.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// UserRepository creates a user repository.
func (f *RepositoryFactory) UserRepository() domain.UserRepository {
	return persistence.NewSQLUserRepository(f.conn)
}

// TaskRepository creates a task repository.
func (f *RepositoryFactory) TaskRepository() domain.TaskRepository {
	return persistence.NewSQLTaskRepository(f.conn)
}

// OutboxRepository creates an outbox repository.
func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

// UnitOfWork creates a unit of work over the connection.
func (f *RepositoryFactory) UnitOfWork() sharedApplication.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}
