package main

import (
	"github.com/hyperengineering/haven"
	"github.com/hyperengineering/haven/internal/notify"
	havenmcp "github.com/hyperengineering/haven/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for client app integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio.

This lets chat-based client surfaces call Haven tools directly.

Configuration (e.g. in an MCP client config):

  {
    "mcpServers": {
      "haven": {
        "command": "haven",
        "args": ["mcp"],
        "env": {
          "HAVEN_DB_PATH": "/path/to/haven.db"
        }
      }
    }
  }

Environment variables:
  HAVEN_DB_PATH         Path to local SQLite database
  GEMINI_API_KEY        Gemini API key (omit to run offline)
  HAVEN_GEN_MODEL       Gemini model name
  HAVEN_CRISIS_WEBHOOK  Care-team webhook for crisis alerts (optional)
  HAVEN_CRISIS_KEY      Webhook API key (required if webhook set)
  HAVEN_SOURCE_ID       Client identifier (default: hostname)`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	// Client persists for the server lifetime
	client, err := haven.New(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.CrisisWebhookURL != "" {
		client.WithNotifier(notify.NewHTTPClient(cfg.CrisisWebhookURL, cfg.CrisisWebhookKey, cfg.SourceID))
	}

	server := havenmcp.NewServer(client)
	return server.Run()
}
