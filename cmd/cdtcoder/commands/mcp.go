// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Lets LLM agents code dental scenarios over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/cdt-coder/internal/mcp"
)

var mcpNoHistory bool

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the CDT coder as an MCP (Model Context Protocol) server, giving
LLM agents the code_scenario, activate_topic, list_topics and
get_analysis tools over stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  cdtcoder mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "cdtcoder": {
  #       "command": "cdtcoder",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().BoolVar(&mcpNoHistory, "no-history", false, "Do not open the analysis history")

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cmd, !mcpNoHistory)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer("CDT Coder", versionInfo.Version)

	var history mcp.History
	if a.store != nil {
		history = a.store
	}
	mcp.RegisterTools(server, a.coder, history, a.defaults(), a.logger)

	a.logger.Info().Msg("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
