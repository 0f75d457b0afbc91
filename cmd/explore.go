package cmd

import (
	"github.com/chartdeck/chartdeck/core"
	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd shows the headline numbers of a page.
var metricsCmd = &cobra.Command{
	Use:   "metrics [page]",
	Short: "Show the stat cards of a page",
	Long: `Load a page's metrics documents and print its stat cards.

When a page reads several metrics documents, later documents override earlier ones
for the same field. Missing numbers show as zero.

Examples:
  # Overview headline numbers
  chartdeck metrics

  # Model performance as JSON
  chartdeck metrics modeling --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, core.NewPageLoader(cfg)); err != nil {
			contract.LogFatal("Cannot show metrics", err)
		}
	},
}

// tableCmd explores the metric tables of a page.
var tableCmd = &cobra.Command{
	Use:   "table [page] [table]",
	Short: "Search and paginate metric tables like the data explorer",
	Long: `Explore array-valued metrics fields as tables.

Without a table name the available tables are listed. With a table name, rows are
filtered by --search (case-insensitive, any cell) and paginated with --page-number
and --page-size.

Examples:
  # List tables on the data page
  chartdeck table data

  # Search the brand summary
  chartdeck table data brand_summary --search toyota

  # Page through results
  chartdeck table data brand_summary --page-size 20 --page-number 2`,
	Args:    cobra.MaximumNArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTable(rootCtx, cfg, core.NewPageLoader(cfg)); err != nil {
			contract.LogFatal("Cannot show table", err)
		}
	},
}

// pagesCmd lists the page catalogue.
var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List dashboard pages and the artifacts each one reads",
	Long: `Print every dashboard page with its chart bundle, demo bundle and metrics files.

Paths are relative to --source and --base-path.

Examples:
  chartdeck pages
  chartdeck pages --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePages(cfg); err != nil {
			contract.LogFatal("Cannot list pages", err)
		}
	},
}
