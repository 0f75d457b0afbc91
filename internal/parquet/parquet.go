// Package parquet exports rendered chart data and render-run history to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/parquet-go/parquet-go"
)

// ChartPoint is one plotted value of a rendered chart, flattened for columnar tools.
type ChartPoint struct {
	// ChartID is the positional identifier of the chart on its page
	ChartID string `parquet:"chart_id,snappy"`

	// ChartTitle is the chart heading
	ChartTitle string `parquet:"chart_title,snappy"`

	// ChartType is one of the supported chart kinds
	ChartType string `parquet:"chart_type,snappy,dict"`

	// Series is the display name of the series, or the chart title for pie slices
	Series string `parquet:"series,snappy,dict"`

	// Category is the x-axis category or pie slice name
	Category string `parquet:"category,snappy"`

	// Value is nil when the row had no numeric value for the series
	Value *float64 `parquet:"value,optional,snappy"`

	// Percent is only set for pie slices
	Percent *int32 `parquet:"percent,optional,snappy"`

	// Color is the resolved series or slice color
	Color string `parquet:"color,snappy,dict"`
}

// PagePoints flattens every non-placeholder chart of page into points.
func PagePoints(page schema.RenderedPage) []ChartPoint {
	var points []ChartPoint
	for _, c := range page.Charts {
		if c.IsPlaceholder() {
			continue
		}
		if c.Type == schema.PieChart {
			for _, s := range c.Slices {
				value := s.Value
				percent := int32(s.Percent)
				points = append(points, ChartPoint{
					ChartID: c.ID, ChartTitle: c.Title, ChartType: string(c.Type),
					Series: c.Title, Category: s.Name, Value: &value, Percent: &percent, Color: s.Color,
				})
			}
			continue
		}
		for _, s := range c.Series {
			for _, p := range s.Points {
				point := ChartPoint{
					ChartID: c.ID, ChartTitle: c.Title, ChartType: string(c.Type),
					Series: s.Name, Category: p.Category, Color: s.Color,
				}
				if !p.Missing {
					value := p.Value
					point.Value = &value
				}
				points = append(points, point)
			}
		}
	}
	return points
}

// WritePoints writes chart points as a Parquet stream to w.
func WritePoints(w io.Writer, points []ChartPoint) error {
	return writeRows(w, points)
}

// WriteRunsParquet writes render runs to a Parquet file.
func WriteRunsParquet(data []schema.RenderRunRecord, outputPath string) error {
	return writeFile(outputPath, data)
}

// WriteChartRecordsParquet writes chart summaries to a Parquet file.
func WriteChartRecordsParquet(data []schema.RenderChartRecord, outputPath string) error {
	return writeFile(outputPath, data)
}

func writeFile[T any](outputPath string, data []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// writeRows derives the schema from T's struct tags.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
