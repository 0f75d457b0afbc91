package cmd

import (
	"github.com/chartdeck/chartdeck/core"
	"github.com/chartdeck/chartdeck/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the chartdeck MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents list pages, render them,
read their stat cards and search their metric tables.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, core.NewPageLoader(cfg), runManager)
	},
}
