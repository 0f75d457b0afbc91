// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var pageNames = []string{"overview", "analysis", "data", "modeling"}

// NewMCPServer initializes and configures the chartdeck MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, loader contract.PageLoader, mgr contract.RunManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Chartdeck Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		loader:  loader,
		mgr:     mgr,
	}

	// --- 1. Tool: list_pages ---
	s.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the dashboard pages and the chart bundle and metrics files each one reads."),
	), h.handleListPages)

	// --- 2. Tool: render_page ---
	s.AddTool(mcp.NewTool("render_page",
		mcp.WithDescription("Load a page's chart bundle and render every chart into series, slices and placeholders."),
		mcp.WithString("page", mcp.Description("Dashboard page to render."), mcp.Required(), mcp.Enum(pageNames...)),
	), h.handleRenderPage)

	// --- 3. Tool: page_metrics ---
	s.AddTool(mcp.NewTool("page_metrics",
		mcp.WithDescription("Return the headline stat cards of a page."),
		mcp.WithString("page", mcp.Description("Dashboard page to read metrics for."), mcp.Required(), mcp.Enum(pageNames...)),
	), h.handlePageMetrics)

	// --- 4. Tool: get_table ---
	s.AddTool(mcp.NewTool("get_table",
		mcp.WithDescription("Search and paginate one metric table of a page, like the dashboard's data explorer."),
		mcp.WithString("page", mcp.Description("Dashboard page that owns the table. Defaults to 'data'."), mcp.Enum(pageNames...)),
		mcp.WithString("table", mcp.Description("Table name, e.g. brand_summary."), mcp.Required()),
		mcp.WithString("search", mcp.Description("Case-insensitive filter applied to every cell.")),
		mcp.WithNumber("page_number", mcp.Description("1-based page of results.")),
		mcp.WithNumber("page_size", mcp.Description("Rows per page (default 10).")),
	), h.handleGetTable)

	return s
}

// StartMCPServer starts the chartdeck MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, loader contract.PageLoader, mgr contract.RunManager) error {
	s := NewMCPServer(baseCfg, loader, mgr)
	return server.ServeStdio(s)
}
