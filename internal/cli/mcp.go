package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/atscheck/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This allows AI assistants to score documents and read your score history.

Add to your assistant's MCP config:

{
  "mcpServers": {
    "atscheck": {
      "command": "/path/to/atscheck",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	// The history is always readable; save_history only sets the default for score_document
	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcp.New(a.tracker, cfg, a.log, version)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("mcp server started")
	if err := server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
