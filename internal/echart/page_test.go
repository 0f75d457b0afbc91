package echart

import (
	"bytes"
	"testing"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePage(t *testing.T) {
	chart := barChart()
	chart.Description = `Monthly <b>sales</b><script>alert(1)</script>`
	page := schema.RenderedPage{
		Page:        schema.OverviewPage,
		Title:       "Dashboard Overview",
		Description: "Key numbers",
		Source:      schema.DemoSource,
		Cards:       []schema.StatCard{{Title: "Total Cars", Value: "12,345"}},
		Charts: []schema.RenderedChart{
			chart,
			{ID: "chart-1", Title: "Odd", Placeholder: "Unsupported chart type: heatmap"},
		},
		Tables: []schema.DataTable{{Title: "Brand Distribution", Columns: []string{"name"}, Rows: [][]string{{"Toyota"}}}},
	}
	nav := []NavLink{{Title: "Overview", Href: "index.html", Active: true}, {Title: "Data", Href: "data.html"}}

	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, page, PageOptions{AssetsHost: "https://cdn.example/", Nav: nav}))
	out := buf.String()

	assert.Contains(t, out, "<title>Dashboard Overview</title>")
	assert.Contains(t, out, `src="https://cdn.example/echarts.min.js"`)
	assert.Contains(t, out, `id="chart-0"`)
	assert.Contains(t, out, `class="active"`)
	assert.Contains(t, out, "Unsupported chart type: heatmap")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "Chart source: demo")
	assert.Contains(t, out, "<b>sales</b>")
	assert.NotContains(t, out, "alert(1)")
	assert.Contains(t, out, "Showing 1 to 1 of 1 entries")
	assert.Contains(t, out, "setOption(")
}

func TestWritePageEmpty(t *testing.T) {
	page := schema.RenderedPage{Title: "Detailed Analysis", Source: schema.NoSource, Empty: schema.NoChartDataText}
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, page, PageOptions{}))
	out := buf.String()
	assert.Contains(t, out, schema.NoChartDataText)
	assert.NotContains(t, out, "setOption(")
	assert.NotContains(t, out, "<nav>")
}

func TestSanitizeDescription(t *testing.T) {
	assert.Equal(t, "plain", string(SanitizeDescription("plain")))
	assert.NotContains(t, string(SanitizeDescription(`<img src=x onerror="x()">`)), "onerror")
}

func TestWritePageKeepsScriptClosed(t *testing.T) {
	chart := barChart()
	chart.Title = `</script><script>alert(1)</script>`
	page := schema.RenderedPage{Title: "Detailed Analysis", Source: schema.PrimarySource, Charts: []schema.RenderedChart{chart}}

	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, page, PageOptions{}))
	out := buf.String()
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, `</script>`)
}

func TestWritePageTableSummary(t *testing.T) {
	page := schema.RenderedPage{
		Title:  "Data Explorer",
		Source: schema.PrimarySource,
		Tables: []schema.DataTable{
			{Title: "Brand Distribution", Columns: []string{"brand"}, Rows: [][]string{{"Toyota"}, {"Honda"}, {"Mazda"}}},
			{Title: "Price Trend", Columns: []string{"month"}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, page, PageOptions{}))
	out := buf.String()
	assert.Contains(t, out, "Showing 1 to 3 of 3 entries")
	assert.Contains(t, out, "Showing 0 to 0 of 0 entries")
}
