package cli

import (
	"errors"

	internalApp "github.com/felixgeelhaar/perfboard/internal/app"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/commands"
	"github.com/felixgeelhaar/perfboard/internal/performance/application/queries"
	"github.com/felixgeelhaar/perfboard/internal/performance/infrastructure/seed"
	"github.com/felixgeelhaar/perfboard/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/perfboard/pkg/config"
)

// ErrNotInitialized is returned by commands that need the database when the
// application could not be wired.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	Config *config.Config
	DB     database.Connection

	// User handlers
	CreateUserHandler    *commands.CreateUserHandler
	SetUserActiveHandler *commands.SetUserActiveHandler
	ListUsersHandler     *queries.ListUsersHandler

	// Task handlers
	CreateTaskHandler       *commands.CreateTaskHandler
	UpdateTaskStatusHandler *commands.UpdateTaskStatusHandler
	ReassignTaskHandler     *commands.ReassignTaskHandler
	ListTasksHandler        *queries.ListTasksHandler

	// Performance handlers
	EmployeeRankingsHandler *queries.GetEmployeeRankingsHandler
	ManagerRankingsHandler  *queries.GetManagerRankingsHandler
	SubjectScoreHandler     *queries.GetSubjectScoreHandler
	OrgReportHandler        *queries.GetOrgReportHandler
	TeamDashboardHandler    *queries.GetTeamDashboardHandler

	SeedLoader *seed.Loader

	// Acting user (configured per environment)
	ActorID string
}

// NewApp creates a CLI application backed by the container's handlers.
func NewApp(c *internalApp.Container) *App {
	a := &App{
		Config:                  c.Config,
		DB:                      c.DBConn,
		CreateUserHandler:       c.CreateUserHandler,
		SetUserActiveHandler:    c.SetUserActiveHandler,
		ListUsersHandler:        c.ListUsersHandler,
		CreateTaskHandler:       c.CreateTaskHandler,
		UpdateTaskStatusHandler: c.UpdateTaskStatusHandler,
		ReassignTaskHandler:     c.ReassignTaskHandler,
		ListTasksHandler:        c.ListTasksHandler,
		EmployeeRankingsHandler: c.EmployeeRankingsHandler,
		ManagerRankingsHandler:  c.ManagerRankingsHandler,
		SubjectScoreHandler:     c.SubjectScoreHandler,
		OrgReportHandler:        c.OrgReportHandler,
		TeamDashboardHandler:    c.TeamDashboardHandler,
		SeedLoader:              c.SeedLoader,
	}
	if c.Config != nil {
		a.ActorID = c.Config.ActorID
	}
	return a
}

// SetActorID updates the acting user.
func (a *App) SetActorID(id string) {
	a.ActorID = id
}

// Actor returns the acting user for this invocation. The --actor flag wins
// over the configured actor.
func (a *App) Actor() string {
	if actorFlag != "" {
		return actorFlag
	}
	return a.ActorID
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
