package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chartdeck/chartdeck/core"
	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	loader  contract.PageLoader
	mgr     contract.RunManager
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleListPages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(core.Pages()), nil
}

func (h *toolHandler) handleRenderPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("page", "")
	if name == "" {
		return mcp.NewToolResultError("page is required"), nil
	}
	page, err := core.PageByName(ctx, h.baseCfg.Clone(), name, h.loader, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return jsonResult(page), nil
}

func (h *toolHandler) handlePageMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, data, err := h.load(ctx, request.GetString("page", ""), true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(core.StatCards(spec.Name, data.Metrics)), nil
}

func (h *toolHandler) handleGetTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tableName := request.GetString("table", "")
	if tableName == "" {
		return mcp.NewToolResultError("table is required"), nil
	}
	pageName := request.GetString("page", string(schema.DataPage))
	spec, data, err := h.load(ctx, pageName, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	table, ok := core.FindTable(core.MetricTables(data.Metrics), tableName)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no table named '%s' on page %s", tableName, spec.Name)), nil
	}
	pageNumber := max(request.GetInt("page_number", 1), 1)
	pageSize := request.GetInt("page_size", contract.DefaultPageSize)
	if pageSize < 1 || pageSize > contract.MaxPageSize {
		return mcp.NewToolResultError(fmt.Sprintf("page_size must be between 1 and %d", contract.MaxPageSize)), nil
	}
	return jsonResult(core.FilterTable(table, request.GetString("search", ""), pageNumber, pageSize)), nil
}

// load resolves a page and fetches its artifacts.
func (h *toolHandler) load(ctx context.Context, name string, required bool) (schema.PageSpec, schema.PageData, error) {
	if required && name == "" {
		return schema.PageSpec{}, schema.PageData{}, fmt.Errorf("page is required")
	}
	spec, err := core.LookupPage(name)
	if err != nil {
		return schema.PageSpec{}, schema.PageData{}, err
	}
	data, err := h.loader.LoadPage(ctx, spec)
	if err != nil {
		return schema.PageSpec{}, schema.PageData{}, fmt.Errorf("load failed: %w", err)
	}
	return spec, data, nil
}
