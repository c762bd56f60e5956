package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/perfboard/adapter/cli"
	mcptools "github.com/felixgeelhaar/perfboard/adapter/mcp"
	"github.com/felixgeelhaar/perfboard/internal/app"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// Run opens the container described by cfg and serves MCP over HTTP until
// ctx is canceled. actorID overrides cfg.ActorID when set.
func Run(ctx context.Context, cfg *config.Config, actorID string, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer container.Close()

	err = Serve(ctx, cfg, NewCLIApp(container, actorID), logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Serve exposes cliApp's tools, resources and prompts and blocks until
// ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, cliApp *cli.App, logger *slog.Logger) error {
	switch {
	case cfg == nil:
		return errors.New("config is required")
	case cliApp == nil:
		return errors.New("CLI app is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := Build(cliApp, logger)
	if err != nil {
		return err
	}

	if cfg.MCPAuthToken == "" {
		logger.Warn("MCP_AUTH_TOKEN is empty; the MCP endpoint is unauthenticated")
	}
	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "actor", cliApp.Actor())
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(Middleware(cfg.MCPAuthToken, logger)...))
}

// Build creates the server and registers every capability on it. Tools
// are required; a resource or prompt that fails to register is logged
// and skipped.
func Build(cliApp *cli.App, logger *slog.Logger) (*mcpgo.Server, error) {
	srv := NewServer()
	deps := mcptools.ToolDependencies{App: cliApp}

	if err := mcptools.RegisterCLITools(srv, deps); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}
	if err := mcptools.RegisterResources(srv, deps); err != nil {
		logger.Warn("mcp resources unavailable", "error", err)
	}
	if err := mcptools.RegisterPrompts(srv, deps); err != nil {
		logger.Warn("mcp prompts unavailable", "error", err)
	}
	return srv, nil
}

func NewServer() *mcpgo.Server {
	return mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    "perfboard-mcp",
		Version: cli.Version,
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})
}

// Middleware returns the default request stack, behind bearer
// authentication when token is set.
func Middleware(token string, logger *slog.Logger) []middleware.Middleware {
	log := slogAdapter{logger}
	stack := middleware.DefaultStack(log)
	if token == "" {
		return stack
	}
	tokens := middleware.StaticTokens(map[string]*middleware.Identity{
		token: {ID: "mcp-client", Name: "mcp-client"},
	})
	auth := middleware.Auth(middleware.BearerTokenAuthenticator(tokens), middleware.WithAuthLogger(log))
	return append([]middleware.Middleware{auth}, stack...)
}

// NewLogger builds the server logger on top of the observability logger,
// at debug level in development.
func NewLogger(out io.Writer, cfg *config.Config) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	logCfg.Output = out
	logCfg.ServiceName = "perfboard-mcp"
	logCfg.ServiceVersion = cli.Version
	if cfg != nil && cfg.IsDevelopment() {
		logCfg.Level = observability.LogLevelDebug
	} else if cfg != nil && cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	return observability.NewLogger(logCfg)
}

// slogAdapter satisfies the middleware logger with slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) log(level slog.Level, msg string, fields []middleware.Field) {
	args := make([]any, 0, 2*len(fields))
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	a.logger.Log(context.Background(), level, msg, args...)
}

func (a slogAdapter) Debug(msg string, fields ...middleware.Field) {
	a.log(slog.LevelDebug, msg, fields)
}

func (a slogAdapter) Info(msg string, fields ...middleware.Field) {
	a.log(slog.LevelInfo, msg, fields)
}

func (a slogAdapter) Warn(msg string, fields ...middleware.Field) {
	a.log(slog.LevelWarn, msg, fields)
}

func (a slogAdapter) Error(msg string, fields ...middleware.Field) {
	a.log(slog.LevelError, msg, fields)
}
