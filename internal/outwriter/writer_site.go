package outwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/echart"
	"github.com/chartdeck/chartdeck/schema"
)

// SiteFileName is the file a page is written to in a static build.
// The overview page becomes the site index.
func SiteFileName(name schema.PageName) string {
	if name == schema.OverviewPage {
		return "index.html"
	}
	return string(name) + ".html"
}

// siteNav links every page, marking current as active.
func siteNav(pages []schema.RenderedPage, current schema.PageName) []echart.NavLink {
	nav := make([]echart.NavLink, 0, len(pages))
	for _, p := range pages {
		nav = append(nav, echart.NavLink{
			Title:  p.Title,
			Href:   SiteFileName(p.Page),
			Active: p.Page == current,
		})
	}
	return nav
}

func writeSite(status io.Writer, pages []schema.RenderedPage, cfg *contract.Config, duration time.Duration) error {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutDir, err)
	}

	charts, placeholders := 0, 0
	for _, page := range pages {
		path := filepath.Join(cfg.OutDir, SiteFileName(page.Page))
		opts := echart.PageOptions{
			AssetsHost: cfg.AssetsHost,
			Nav:        siteNav(pages, page.Page),
		}
		if err := writeSitePage(path, page, opts); err != nil {
			return err
		}
		charts += len(page.Charts)
		placeholders += page.PlaceholderCount()
	}

	_, _ = fmt.Fprintf(status, "💾 Wrote %d pages to %s (%d charts, %d placeholders) in %v\n",
		len(pages), cfg.OutDir, charts, placeholders, duration.Round(time.Millisecond))
	return nil
}

func writeSitePage(path string, page schema.RenderedPage, opts echart.PageOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := echart.WritePage(f, page, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
