package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() schema.RenderedPage {
	return schema.RenderedPage{
		Page: schema.OverviewPage,
		Charts: []schema.RenderedChart{
			{
				ID: "chart-0", Title: "Sales", Type: schema.BarChart,
				Series: []schema.RenderedSeries{{
					Name: "Sales", Color: "#d92626",
					Points: []schema.RenderedPoint{{Category: "Jan", Value: 10}, {Category: "Feb", Missing: true}},
				}},
			},
			{ID: "chart-1", Title: "Broken", Placeholder: "Unsupported chart type: x"},
			{
				ID: "chart-2", Title: "Share", Type: schema.PieChart,
				Slices: []schema.PieSlice{{Name: "A", Value: 3, Percent: 75, Color: "#d9ac26"}, {Name: "B", Value: 1, Percent: 25}},
			},
		},
	}
}

func readAll[T any](t *testing.T, r io.ReaderAt, size int64) []T {
	t.Helper()
	file, err := parquet.OpenFile(r, size)
	require.NoError(t, err)
	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestChartPointStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(ChartPoint))
	for _, col := range []string{"chart_id", "chart_title", "chart_type", "series", "category", "value", "percent", "color"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestPagePoints(t *testing.T) {
	points := PagePoints(samplePage())
	require.Len(t, points, 4, "placeholders contribute no points")

	assert.Equal(t, "chart-0", points[0].ChartID)
	require.NotNil(t, points[0].Value)
	assert.Equal(t, 10.0, *points[0].Value)
	assert.Nil(t, points[1].Value, "missing point has no value")
	assert.Nil(t, points[0].Percent)

	assert.Equal(t, "chart-2", points[2].ChartID)
	assert.Equal(t, "Share", points[2].Series)
	require.NotNil(t, points[2].Percent)
	assert.Equal(t, int32(75), *points[2].Percent)
}

func TestWritePointsRoundTrip(t *testing.T) {
	points := PagePoints(samplePage())
	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, points))

	got := readAll[ChartPoint](t, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Len(t, got, len(points))
	for i := range points {
		assert.Equal(t, points[i].Category, got[i].Category)
		assert.Equal(t, points[i].Value == nil, got[i].Value == nil)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	end := now.Add(1500 * time.Millisecond)
	duration := int64(1500)
	params := `{"page":"overview"}`
	runs := []schema.RenderRunRecord{
		{RunID: "a", Page: "overview", BundleSource: "primary", StartTime: now, EndTime: &end, DurationMs: &duration, TotalCharts: 3, PlaceholderCharts: 1, ConfigParams: &params},
		{RunID: "b", Page: "data", StartTime: now},
	}

	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteRunsParquet(runs, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	require.NoError(t, err)

	got := readAll[schema.RenderRunRecord](t, f, info.Size())
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].RunID)
	assert.Equal(t, int32(1), got[0].PlaceholderCharts)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, end, *got[0].EndTime, time.Millisecond)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].DurationMs)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteChartRecordsParquet(t *testing.T) {
	records := []schema.RenderChartRecord{
		{RunID: "a", ChartIndex: 0, Title: "Sales", ChartType: "bar", SeriesCount: 2, RowCount: 12},
		{RunID: "a", ChartIndex: 1, Title: "Odd", ChartType: "heatmap", Placeholder: true},
	}
	path := filepath.Join(t.TempDir(), "charts.parquet")
	require.NoError(t, WriteChartRecordsParquet(records, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	require.NoError(t, err)

	got := readAll[schema.RenderChartRecord](t, f, info.Size())
	assert.Equal(t, records, got)
}

func TestWriteParquetEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteChartRecordsParquet(nil, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "an empty file still carries a footer")
}

func TestWriteParquetInvalidPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.Error(t, err)
}
