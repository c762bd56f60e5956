// Package clitest wires a local-mode CLI application for command tests.
package clitest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	internalApp "github.com/felixgeelhaar/perfboard/internal/app"
	"github.com/felixgeelhaar/perfboard/internal/performance/infrastructure/seed"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// AdminID is the acting user of test applications.
const AdminID = "ADMIN001"

// NewApp creates a CLI application over a fresh SQLite database and installs
// it as the global app for the duration of the test. When seeded is true the
// demo organisation is loaded first.
func NewApp(t *testing.T, seeded bool) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel:       "error",
		ActorID:        AdminID,
		EventBroker:    "noop",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	container, err := internalApp.NewContainer(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	if seeded {
		ds, err := seed.Demo()
		require.NoError(t, err)
		_, err = container.SeedLoader.Load(ctx, ds)
		require.NoError(t, err)
	}

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
}

// Run executes cmd's RunE with args and returns what it printed.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	defer cmd.SetOut(nil)

	err := cmd.RunE(cmd, args)
	return out.String(), err
}
