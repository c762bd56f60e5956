package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// tools binds tool handlers to the CLI application.
type tools struct {
	app *cli.App
}

func (t tools) health(ctx context.Context, _ struct{}) (observability.OverallHealth, error) {
	if t.app == nil {
		return observability.OverallHealth{}, errors.New("app not initialized")
	}
	return cli.CheckHealth(ctx, t.app), nil
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	t := tools{app: deps.App}

	srv.Tool("cli.health").
		Description("Check CLI wiring and database health").
		Handler(t.health)

	return nil
}
