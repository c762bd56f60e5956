package mcp

import (
	mcpserver "github.com/felixgeelhaar/perfboard/internal/mcp"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr, actor string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve perfboard tools over MCP (streamable HTTP)",
		Example: `  perfboard mcp serve --addr 127.0.0.1:8082
  perfboard mcp serve --as MGR001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.MCPAddr = addr
			}
			return mcpserver.Run(cmd.Context(), cfg, actor, mcpserver.NewLogger(cmd.ErrOrStderr(), cfg))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides MCP_ADDR)")
	cmd.Flags().StringVar(&actor, "as", "", "acting user for tool calls (overrides PERFBOARD_ACTOR_ID)")
	return cmd
}
