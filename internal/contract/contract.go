// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/chartdeck/chartdeck/schema"
)

// Fetcher reads raw artifact bytes from a source.
// This allows page loading to be tested without a network or a real directory.
type Fetcher interface {
	// Fetch returns the artifact at path, relative to the source root.
	// A missing artifact yields an error wrapping schema.ErrNotFound.
	Fetch(ctx context.Context, path string) ([]byte, error)

	// Describe returns a human readable location of the source.
	Describe() string
}

// PageLoader turns a page spec into the charts and metrics to render.
type PageLoader interface {
	// LoadPage fetches the chart bundle and metrics concurrently.
	// Individual artifact failures are tolerated; only a cancelled context is an error.
	LoadPage(ctx context.Context, spec schema.PageSpec) (schema.PageData, error)
}

// RunManager defines the interface for managing the render-run store.
// This allows the tracking layer to be mocked for testing.
type RunManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking page renders.
type RunStore interface {
	// BeginRun creates a new render run and returns its unique ID
	BeginRun(page schema.PageName, startTime time.Time, configParams map[string]any) (string, error)

	// RecordChart stores the summary of one rendered chart
	RecordChart(record schema.RenderChartRecord) error

	// EndRun updates the render run with completion data
	EndRun(runID string, endTime time.Time, source schema.BundleSource, totalCharts, placeholderCharts int) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns retrieves every recorded render run, oldest first
	GetAllRuns() ([]schema.RenderRunRecord, error)

	// GetAllCharts retrieves every recorded chart summary
	GetAllCharts() ([]schema.RenderChartRecord, error)

	// Close closes the underlying connection
	Close() error
}
