package mcp

import (
	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided
// container. An empty actorID keeps the configured acting user.
func NewCLIApp(container *app.Container, actorID string) *cli.App {
	cliApp := cli.NewApp(container)
	if actorID != "" {
		cliApp.SetActorID(actorID)
	}
	return cliApp
}
