// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WritePage prints a rendered page using the configured output format.
func (ow *OutWriter) WritePage(page schema.RenderedPage, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writePage(w, page, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteSite writes every page as a linked static HTML file under cfg.OutDir.
func (ow *OutWriter) WriteSite(pages []schema.RenderedPage, cfg *contract.Config, duration time.Duration) error {
	return writeSite(statusOut, pages, cfg, duration)
}

// WriteMetrics prints the stat cards of a page using the configured output format.
func (ow *OutWriter) WriteMetrics(spec schema.PageSpec, cards []schema.StatCard, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeMetrics(w, spec, cards, cfg)
	}, successMessage(cfg.Output))
}

// WriteTableList prints the metric tables a page offers.
func (ow *OutWriter) WriteTableList(tables []schema.DataTable, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeTableList(w, tables, cfg)
	}, successMessage(cfg.Output))
}

// WriteTable prints one filtered and paginated metric table.
func (ow *OutWriter) WriteTable(view schema.TableView, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeTableView(w, view, cfg)
	}, successMessage(cfg.Output))
}

// WritePages prints the page catalogue.
func (ow *OutWriter) WritePages(specs []schema.PageSpec, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writePageSpecs(w, specs, cfg)
	}, successMessage(cfg.Output))
}

// WriteRunStatus prints the status of the render-run store.
func (ow *OutWriter) WriteRunStatus(status schema.RunStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeRunStatus(w, status, cfg)
	}, successMessage(cfg.Output))
}

// successMessage is the notice printed after writing to a file.
func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	case schema.HTMLOut:
		return "Wrote HTML"
	case schema.ParquetOut:
		return "Wrote Parquet"
	default:
		return "Wrote text"
	}
}

// errUnsupported reports an output format a command has no rendition for.
func errUnsupported(mode schema.OutputMode, what string) error {
	return fmt.Errorf("output format '%s' is not supported for %s", mode, what)
}
