package cmd

import (
	"github.com/chartdeck/chartdeck/core"
	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/server"
	"github.com/spf13/cobra"
)

// renderCmd renders one dashboard page.
var renderCmd = &cobra.Command{
	Use:   "render [page]",
	Short: "Render one dashboard page (overview, analysis, data, modeling)",
	Long: `Load a page's chart bundle and metrics, render every chart, and print the result.

The primary bundle is tried first. When it is missing or malformed the bundled demo
data is used instead, and a page with neither shows "No chart data available".
Charts that cannot be drawn become inline placeholders; the page never fails as a whole.

Output formats:
- text: tables per chart with color swatches (default)
- json: the full rendered page
- csv: one row per point, slice or placeholder
- html: a self-contained echarts page
- parquet: point data for DuckDB or pandas (requires --output-file)

Examples:
  # Render the overview page from the current directory
  chartdeck render

  # Render the analysis page from a deployed site
  chartdeck render analysis --source https://example.github.io --base-path /Aomsin-Tid-Data

  # Save the modeling page as HTML
  chartdeck render modeling --output html --output-file modeling.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, core.NewPageLoader(cfg), runManager); err != nil {
			contract.LogFatal("Cannot render page", err)
		}
	},
}

// buildCmd writes every page as a static site.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render all pages into a static HTML site",
	Long: `Render every dashboard page concurrently and write one HTML file per page.

The overview page becomes index.html; the others are written as <page>.html and
linked through a shared navigation bar.

Examples:
  # Build into ./site
  chartdeck build

  # Build into a custom directory with a self-hosted echarts bundle
  chartdeck build --out-dir public --assets-host /assets/`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuild(rootCtx, cfg, core.NewPageLoader(cfg), runManager); err != nil {
			contract.LogFatal("Cannot build site", err)
		}
	},
}

// serveCmd starts the preview server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dashboard pages over HTTP for local preview",
	Long: `Start an HTTP server that renders pages on every request.

Routes:
  /              overview page
  /{page}        analysis, data or modeling page
  /api/{page}    rendered page as JSON
  /api/pages     page catalogue
  /livez         liveness probe

Examples:
  # Serve on the default address
  chartdeck serve

  # Serve a remote source on all interfaces
  chartdeck serve --addr :8080 --source https://example.github.io`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		srv := server.New(cfg, core.NewPageLoader(cfg), runManager, contract.Logger())
		cmd.Printf("Serving dashboard on http://%s\n", cfg.Addr)
		if err := srv.Run(rootCtx); err != nil {
			contract.LogFatal("Preview server stopped", err)
		}
	},
}
