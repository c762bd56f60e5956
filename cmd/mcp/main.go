package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/felixgeelhaar/perfboard/internal/mcp"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		observability.LoggerFromEnv().Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := mcpserver.NewLogger(os.Stderr, cfg)

	if err := mcpserver.Run(ctx, cfg, "", logger); err != nil {
		logger.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
