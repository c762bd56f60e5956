// Package mcp holds the commands that run perfboard as an MCP server.
package mcp

import "github.com/spf13/cobra"

// Cmd groups the MCP subcommands under "perfboard mcp".
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose perfboard to MCP clients",
}

func init() {
	Cmd.AddCommand(newServeCmd())
}
