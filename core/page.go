package core

import (
	"context"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	"golang.org/x/sync/errgroup"
)

// BuildPage assembles the rendered view of a page from its loaded data.
// Every chart is rendered independently; a page never fails as a whole.
func BuildPage(spec schema.PageSpec, data schema.PageData) schema.RenderedPage {
	page := schema.RenderedPage{
		Page:        spec.Name,
		Title:       spec.Title,
		Description: spec.Description,
		Source:      data.Source,
		Cards:       StatCards(spec.Name, data.Metrics),
		Charts:      RenderAll(data.Charts),
	}
	if spec.Name == schema.DataPage {
		page.Tables = MetricTables(data.Metrics)
	}
	if len(page.Charts) == 0 {
		page.Empty = schema.NoChartDataText
	}
	return page
}

// runParams are the settings recorded with each render run.
func runParams(cfg *contract.Config, spec schema.PageSpec) map[string]any {
	return map[string]any{
		"page":      string(spec.Name),
		"source":    cfg.Source,
		"base_path": cfg.BasePath,
		"output":    string(cfg.Output),
	}
}

// RenderPage loads and renders one page, recording the run when tracking is configured.
// Only a cancelled context is an error.
func RenderPage(ctx context.Context, cfg *contract.Config, spec schema.PageSpec, loader contract.PageLoader, mgr contract.RunManager) (schema.RenderedPage, error) {
	var runID string
	var store contract.RunStore
	if mgr != nil {
		store = mgr.GetRunStore()
	}
	if store != nil {
		var err error
		runID, err = store.BeginRun(spec.Name, time.Now(), runParams(cfg, spec))
		if err != nil {
			contract.LogWarn("Render tracking initialization failed", err)
		}
	}

	data, err := loader.LoadPage(ctx, spec)
	if err != nil {
		return schema.RenderedPage{}, err
	}
	page := BuildPage(spec, data)

	if store != nil && runID != "" {
		recordRun(store, runID, page)
	}
	return page, nil
}

// recordRun stores the chart summaries and completes the run.
func recordRun(store contract.RunStore, runID string, page schema.RenderedPage) {
	for i, c := range page.Charts {
		if err := store.RecordChart(schema.ChartSummaryFor(runID, i, c)); err != nil {
			contract.LogWarn("Failed to record chart", err)
		}
	}
	if err := store.EndRun(runID, time.Now(), page.Source, len(page.Charts), page.PlaceholderCount()); err != nil {
		contract.LogWarn("Failed to finalize render tracking", err)
	}
}

// RenderPages renders specs concurrently, bounded by cfg.Workers, keeping their order.
func RenderPages(ctx context.Context, cfg *contract.Config, specs []schema.PageSpec, loader contract.PageLoader, mgr contract.RunManager) ([]schema.RenderedPage, error) {
	pages := make([]schema.RenderedPage, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, spec := range specs {
		g.Go(func() error {
			page, err := RenderPage(gctx, cfg, spec, loader, mgr)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
