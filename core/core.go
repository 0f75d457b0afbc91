// Package core renders chart configurations and assembles dashboard pages.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/outwriter"
	"github.com/chartdeck/chartdeck/internal/source"
	"github.com/chartdeck/chartdeck/schema"
)

// NewPageLoader returns the loader for the configured artifact source.
func NewPageLoader(cfg *contract.Config) contract.PageLoader {
	return source.NewLoader(source.NewFetcher(cfg))
}

// ExecuteRender renders the configured page and writes it in the configured output format.
// It serves as the main entry point for the 'render' command.
func ExecuteRender(ctx context.Context, cfg *contract.Config, loader contract.PageLoader, mgr contract.RunManager) error {
	start := time.Now()
	spec, err := LookupPage(string(cfg.Page))
	if err != nil {
		return err
	}
	page, err := RenderPage(ctx, cfg, spec, loader, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePage(page, cfg, time.Since(start))
}

// ExecuteBuild renders every page and writes a static HTML site to cfg.OutDir.
// It serves as the main entry point for the 'build' command.
func ExecuteBuild(ctx context.Context, cfg *contract.Config, loader contract.PageLoader, mgr contract.RunManager) error {
	start := time.Now()
	pages, err := RenderPages(ctx, cfg, Pages(), loader, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSite(pages, cfg, time.Since(start))
}

// ExecuteMetrics loads the metrics of the configured page and writes its stat cards.
func ExecuteMetrics(ctx context.Context, cfg *contract.Config, loader contract.PageLoader) error {
	spec, err := LookupPage(string(cfg.Page))
	if err != nil {
		return err
	}
	data, err := loader.LoadPage(ctx, spec)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMetrics(spec, StatCards(spec.Name, data.Metrics), cfg)
}

// ExecuteTable shows one metric table of the configured page, filtered and paginated.
// Without a table name it lists the tables that are available.
func ExecuteTable(ctx context.Context, cfg *contract.Config, loader contract.PageLoader) error {
	spec, err := LookupPage(string(cfg.Page))
	if err != nil {
		return err
	}
	data, err := loader.LoadPage(ctx, spec)
	if err != nil {
		return err
	}
	tables := MetricTables(data.Metrics)
	ow := outwriter.NewOutWriter()

	if cfg.TableName == "" {
		return ow.WriteTableList(tables, cfg)
	}
	table, ok := FindTable(tables, cfg.TableName)
	if !ok {
		return fmt.Errorf("no table named '%s' on page %s", cfg.TableName, spec.Name)
	}
	return ow.WriteTable(FilterTable(table, cfg.Search, cfg.PageNumber, cfg.PageSize), cfg)
}

// ExecutePages writes the page catalogue with the artifact locations each page reads.
func ExecutePages(cfg *contract.Config) error {
	return outwriter.NewOutWriter().WritePages(Pages(), cfg)
}

// ExecuteRunStatus writes the status of the render-run store.
func ExecuteRunStatus(cfg *contract.Config, mgr contract.RunManager) error {
	status, err := mgr.GetRunStore().GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	return outwriter.NewOutWriter().WriteRunStatus(status, cfg)
}

// PageByName renders a single page by name for the server and MCP tools.
func PageByName(ctx context.Context, cfg *contract.Config, name string, loader contract.PageLoader, mgr contract.RunManager) (schema.RenderedPage, error) {
	spec, err := LookupPage(name)
	if err != nil {
		return schema.RenderedPage{}, err
	}
	return RenderPage(ctx, cfg, spec, loader, mgr)
}
