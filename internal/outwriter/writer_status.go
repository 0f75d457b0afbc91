package outwriter

import (
	"fmt"
	"io"
	"slices"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/dustin/go-humanize"
)

const statusTimeLayout = "2006-01-02 15:04:05"

func writeRunStatus(w io.Writer, status schema.RunStatus, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, status)
	case schema.TextOut:
		writeRunStatusText(w, status)
		return nil
	default:
		return errUnsupported(cfg.Output, "run status")
	}
}

func writeRunStatusText(w io.Writer, status schema.RunStatus) {
	_, _ = fmt.Fprintf(w, "Run Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %s\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s (%s)\n", status.LastRunTime.Format(statusTimeLayout), humanize.Time(status.LastRunTime))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Total Charts Rendered: %d\n", status.TotalCharts)
		_, _ = fmt.Fprintf(w, "Runs Using Fallback Data: %d\n", status.TotalFallbacks)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	names := make([]string, 0, len(status.TableSizes))
	for name := range status.TableSizes {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %s: %s rows\n", name, humanize.Comma(status.TableSizes[name]))
	}
}
