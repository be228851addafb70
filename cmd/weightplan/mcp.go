// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/weightplan/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants like Claude log weigh-ins, manage plans, and read your
calorie targets through a standardized protocol. The server communicates via
stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "weightplan": {
        "command": "weightplan",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_weight      Log a weigh-in (one per day; same day replaces)
  list_weights    List recent weigh-ins
  delete_weight   Delete a weigh-in by ID
  get_targets     BMR, TDEE, and daily calorie target for the active plan
  list_plans      List plans
  create_plan     Create a plan
  activate_plan   Make a plan active
  delete_plan     Delete a plan
  get_history     Daily, weekly, or monthly history
  export_csv      Progress report as CSV

AVAILABLE RESOURCES:

  weightplan://summary    Profile, active plan, and calorie targets
  weightplan://plans      All plans`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(tr)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
