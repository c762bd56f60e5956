package mcp

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/internal/app"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServe_RequiresConfigAndApp(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, Serve(ctx, nil, &cli.App{}, discard()))
	assert.Error(t, Serve(ctx, &config.Config{}, nil, discard()))
}

func TestRun_RequiresConfig(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, "", discard()))
}

func TestBuild_RegistersTools(t *testing.T) {
	srv, err := Build(&cli.App{}, discard())
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)
	assert.NotEmpty(t, tools)
}

func TestBuild_RequiresApp(t *testing.T) {
	_, err := Build(nil, discard())
	assert.Error(t, err)
}

func TestNewLogger_ServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &config.Config{AppEnv: "development"})

	logger.Debug("tool called", "tool", "performance.score")

	assert.Contains(t, buf.String(), "perfboard-mcp")
	assert.Contains(t, buf.String(), "performance.score")
}

func TestMiddleware_AuthPrependedWithToken(t *testing.T) {
	open := Middleware("", discard())
	secured := Middleware("s3cret", discard())

	assert.Len(t, secured, len(open)+1)
}

func TestNewCLIApp_ActorOverride(t *testing.T) {
	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "mcp.db"),
		ActorID:        "ADMIN001",
		EventBroker:    "noop",
	}
	container, err := app.NewContainer(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer container.Close()

	assert.Equal(t, "ADMIN001", NewCLIApp(container, "").Actor())
	assert.Equal(t, "MGR001", NewCLIApp(container, "MGR001").Actor())
}
