package schema

import "time"

// RenderRunRecord represents a row from the chartdeck_render_runs table.
type RenderRunRecord struct {
	RunID             string     `parquet:"run_id"`
	Page              string     `parquet:"page"`
	BundleSource      string     `parquet:"bundle_source"`
	StartTime         time.Time  `parquet:"start_time,timestamp(millisecond)"`
	EndTime           *time.Time `parquet:"end_time,optional,timestamp(millisecond)"`
	DurationMs        *int64     `parquet:"duration_ms,optional"`
	TotalCharts       int32      `parquet:"total_charts"`
	PlaceholderCharts int32      `parquet:"placeholder_charts"`
	ConfigParams      *string    `parquet:"config_params,optional"`
}

// RenderChartRecord represents a row from the chartdeck_render_charts table.
type RenderChartRecord struct {
	RunID       string `parquet:"run_id"`
	ChartIndex  int32  `parquet:"chart_index"`
	Title       string `parquet:"title"`
	ChartType   string `parquet:"chart_type"`
	SeriesCount int32  `parquet:"series_count"`
	RowCount    int32  `parquet:"row_count"`
	Placeholder bool   `parquet:"placeholder"`
}

// ChartSummaryFor reduces a rendered chart to its run-store row.
func ChartSummaryFor(runID string, index int, c RenderedChart) RenderChartRecord {
	series := len(c.Series)
	if c.Type == PieChart {
		series = 0
		if len(c.Slices) > 0 {
			series = 1
		}
	}
	return RenderChartRecord{
		RunID:       runID,
		ChartIndex:  int32(index),
		Title:       c.Title,
		ChartType:   string(c.Type),
		SeriesCount: int32(series),
		RowCount:    int32(c.RowCount),
		Placeholder: c.IsPlaceholder(),
	}
}
