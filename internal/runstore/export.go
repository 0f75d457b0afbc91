package runstore

import (
	"errors"
	"fmt"
	"io"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/parquet"
)

// ExportRuns writes all recorded runs and chart summaries to two Parquet files
// named after outputFile, reporting progress to w.
func ExportRuns(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no render runs found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total render runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total chart records: %d\n", status.TableSizes[renderChartsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve render runs: %w", err)
	}
	charts, err := store.GetAllCharts()
	if err != nil {
		return fmt.Errorf("failed to retrieve chart records: %w", err)
	}

	runsFile := outputFile + ".render_runs.parquet"
	if err := parquet.WriteRunsParquet(runs, runsFile); err != nil {
		return fmt.Errorf("failed to write render runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d render runs to: %s\n", len(runs), runsFile)

	chartsFile := outputFile + ".render_charts.parquet"
	if err := parquet.WriteChartRecordsParquet(charts, chartsFile); err != nil {
		return fmt.Errorf("failed to write chart records: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d chart records to: %s\n", len(charts), chartsFile)

	return nil
}
