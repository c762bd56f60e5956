package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/perfboard/adapter/cli"
	"github.com/felixgeelhaar/perfboard/adapter/cli/mcp"
	"github.com/felixgeelhaar/perfboard/adapter/cli/rank"
	"github.com/felixgeelhaar/perfboard/adapter/cli/report"
	"github.com/felixgeelhaar/perfboard/adapter/cli/task"
	"github.com/felixgeelhaar/perfboard/adapter/cli/user"
	"github.com/felixgeelhaar/perfboard/internal/app"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		observability.LoggerFromEnv().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logCfg := observability.DefaultLogConfig()
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logCfg.ServiceVersion = cli.Version
	if cfg.IsDevelopment() && cfg.LogLevel == "info" {
		logCfg.Level = observability.LogLevelDebug
	}
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Without a container only version and mcp serve can run, so a
	// failure is fatal outside development.
	container, err := app.NewContainer(ctx, cfg, logger)
	switch {
	case err == nil:
		defer container.Close()
		cli.SetApp(cli.NewApp(container))
	case cfg.IsDevelopment():
		logger.Warn("database unavailable, running in limited mode", "error", err)
	default:
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}

	for _, group := range []*cobra.Command{rank.Cmd, task.Cmd, user.Cmd, report.Cmd, mcp.Cmd} {
		cli.AddCommand(group)
	}
	cli.Execute(ctx)
}
