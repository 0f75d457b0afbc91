package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:     output,
		Precision:  2,
		Width:      160,
		AssetsHost: contract.DefaultAssetsHost,
		OutDir:     "site",
		RunBackend: schema.NoneBackend,
	}
}

func samplePage() schema.RenderedPage {
	return schema.RenderedPage{
		Page:        schema.AnalysisPage,
		Title:       "Analysis",
		Description: "Sales by brand",
		Source:      schema.DemoSource,
		Cards:       []schema.StatCard{{Title: "Total Rows", Value: "1,204"}},
		Charts: []schema.RenderedChart{
			{
				ID:         "chart-0",
				Title:      "Monthly Sales",
				Type:       schema.BarChart,
				XLabel:     "Month",
				Categories: []string{"Jan", "Feb"},
				Series: []schema.RenderedSeries{{
					Name: "Sales", Color: "#d92626", Primitive: schema.BarSeries,
					Points: []schema.RenderedPoint{{Category: "Jan", Value: 120}, {Category: "Feb", Missing: true}},
				}},
				Legend:   []schema.LegendEntry{{Name: "Sales", Color: "#d92626"}},
				RowCount: 2,
			},
			{
				ID:    "chart-1",
				Title: "Brand Share",
				Type:  schema.PieChart,
				Slices: []schema.PieSlice{
					{Name: "Toyota", Value: 75, Percent: 75, Label: "Toyota (75%)", Color: "#d92626"},
					{Name: "Honda", Value: 25, Percent: 25, Label: "Honda (25%)", Color: "#2662d9"},
				},
				RowCount: 2,
			},
			{ID: "chart-2", Title: "Broken", Placeholder: schema.NoRowsText},
		},
	}
}

func TestWritePageText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePage(&buf, samplePage(), testConfig(schema.TextOut), 1500*time.Millisecond))
	out := buf.String()

	assert.Contains(t, out, "Analysis")
	assert.Contains(t, out, "Chart source: demo")
	assert.Contains(t, out, "1,204")
	assert.Contains(t, out, "[bar] Monthly Sales")
	assert.Contains(t, out, "120.00")
	assert.Contains(t, out, missingCell)
	assert.Contains(t, out, "Legend: #d92626 Sales")
	assert.Contains(t, out, "Toyota")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, schema.NoRowsText)
	assert.Contains(t, out, "Rendered 3 charts (1 placeholders) in 1.5s. Run backend: none")
}

func TestWritePageTextEmpty(t *testing.T) {
	page := schema.RenderedPage{Title: "Modeling", Source: schema.NoSource, Empty: schema.NoChartDataText}
	var buf bytes.Buffer
	require.NoError(t, writePage(&buf, page, testConfig(schema.TextOut), 0))
	assert.Contains(t, buf.String(), schema.NoChartDataText)
	assert.Contains(t, buf.String(), "Rendered 0 charts")
}

func TestWritePageCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePage(&buf, samplePage(), testConfig(schema.CSVOut), 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, pageCSVHeader, records[0])
	assert.Equal(t, []string{"chart-0", "Monthly Sales", "bar", "Sales", "Jan", "120.00", "", "#d92626", "false"}, records[1])
	assert.Equal(t, "", records[2][5], "missing points have an empty value")
	assert.Equal(t, []string{"chart-1", "Brand Share", "pie", "Brand Share", "Toyota", "75.00", "75", "#d92626", "false"}, records[3])
	assert.Equal(t, "true", records[5][8])
}

func TestWritePageJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePage(&buf, samplePage(), testConfig(schema.JSONOut), 0))

	var decoded schema.RenderedPage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, schema.AnalysisPage, decoded.Page)
	assert.Len(t, decoded.Charts, 3)
	assert.Equal(t, 1, decoded.PlaceholderCount())
}

func TestWritePageHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePage(&buf, samplePage(), testConfig(schema.HTMLOut), 0))
	out := buf.String()
	assert.Contains(t, out, "<title>Analysis")
	assert.Contains(t, out, contract.DefaultAssetsHost+"echarts.min.js")
	assert.Contains(t, out, schema.NoRowsText)
}

func TestWritePageParquetRequiresFile(t *testing.T) {
	err := NewOutWriter().WritePage(samplePage(), testConfig(schema.ParquetOut), 0)
	assert.ErrorContains(t, err, "--output-file")
}

func TestWritePageParquetFile(t *testing.T) {
	prev := statusOut
	statusOut = &bytes.Buffer{}
	t.Cleanup(func() { statusOut = prev })

	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "analysis.parquet")
	require.NoError(t, NewOutWriter().WritePage(samplePage(), cfg, 0))

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteTableView(t *testing.T) {
	view := schema.TableView{
		Table: schema.DataTable{
			Name: "brand_summary", Title: "Brand Summary",
			Columns: []string{"Brand", "Units"},
			Rows:    [][]string{{"Toyota", "120"}},
		},
		Search: "toy", PageNumber: 1, PageSize: 10, TotalPages: 1, Matched: 1, From: 1, To: 1,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTableView(&buf, view, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Brand Summary")
		assert.Contains(t, out, `Search: "toy"`)
		assert.Contains(t, out, "Toyota")
		assert.Contains(t, out, "Showing 1 to 1 of 1 entries")
		assert.Contains(t, out, "Page 1 of 1")
	})

	t.Run("no matches", func(t *testing.T) {
		empty := view
		empty.Table.Rows = nil
		empty.Matched, empty.From, empty.To, empty.TotalPages = 0, 0, 0, 0
		var buf bytes.Buffer
		require.NoError(t, writeTableView(&buf, empty, testConfig(schema.TextOut)))
		assert.Contains(t, buf.String(), schema.NoResultsText)
		assert.Contains(t, buf.String(), "Page 1 of 1")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeTableView(&buf, view, testConfig(schema.CSVOut)))
		assert.Equal(t, "Brand,Units\nToyota,120\n", buf.String())
	})

	t.Run("unsupported", func(t *testing.T) {
		err := writeTableView(&bytes.Buffer{}, view, testConfig(schema.HTMLOut))
		assert.ErrorContains(t, err, "not supported")
	})
}

func TestWriteMetrics(t *testing.T) {
	spec := schema.PageSpec{Name: schema.ModelingPage, Title: "Modeling"}
	cards := []schema.StatCard{{Title: "R²", Value: "0.91", Hint: "test split"}}

	var text bytes.Buffer
	require.NoError(t, writeMetrics(&text, spec, cards, testConfig(schema.TextOut)))
	assert.Contains(t, text.String(), "Modeling metrics")
	assert.Contains(t, text.String(), "0.91")

	var csvOut bytes.Buffer
	require.NoError(t, writeMetrics(&csvOut, spec, cards, testConfig(schema.CSVOut)))
	assert.Equal(t, "page,title,value,hint\nmodeling,R²,0.91,test split\n", csvOut.String())

	var empty bytes.Buffer
	require.NoError(t, writeMetrics(&empty, spec, nil, testConfig(schema.TextOut)))
	assert.Contains(t, empty.String(), schema.NoResultsText)
}

func TestWritePageSpecs(t *testing.T) {
	specs := []schema.PageSpec{
		{Name: schema.OverviewPage, Title: "Overview", Bundle: "charts/overview.json"},
		{Name: schema.DataPage, Title: "Data", MetricsFiles: []string{"a.json", "b.json"}},
	}
	var buf bytes.Buffer
	require.NoError(t, writePageSpecs(&buf, specs, testConfig(schema.CSVOut)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "data,Data,,,a.json;b.json", lines[2])
}

func TestWriteRunStatus(t *testing.T) {
	now := time.Now()
	status := schema.RunStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 2, LastRunID: "abc",
		LastRunTime: now, OldestRunTime: now.Add(-time.Hour), TotalCharts: 9, TotalFallbacks: 1,
		TableSizes: map[string]int64{"chartdeck_render_runs": 2, "chartdeck_render_charts": 1200},
	}
	var buf bytes.Buffer
	require.NoError(t, writeRunStatus(&buf, status, testConfig(schema.TextOut)))
	out := buf.String()
	assert.Contains(t, out, "Run Backend: sqlite")
	assert.Contains(t, out, "Last Run ID: abc")
	assert.Contains(t, out, "Total Charts Rendered: 9")
	assert.Contains(t, out, "Runs Using Fallback Data: 1")
	assert.Contains(t, out, "chartdeck_render_charts: 1,200 rows")
	assert.Less(t, strings.Index(out, "chartdeck_render_charts"), strings.Index(out, "chartdeck_render_runs"))

	var disconnected bytes.Buffer
	require.NoError(t, writeRunStatus(&disconnected, schema.RunStatus{Backend: "none"}, testConfig(schema.TextOut)))
	assert.NotContains(t, disconnected.String(), "Total Runs")
}

func TestWriteSite(t *testing.T) {
	overview := samplePage()
	overview.Page, overview.Title = schema.OverviewPage, "Overview"
	pages := []schema.RenderedPage{overview, samplePage()}

	cfg := testConfig(schema.HTMLOut)
	cfg.OutDir = filepath.Join(t.TempDir(), "out")

	var notices bytes.Buffer
	require.NoError(t, writeSite(&notices, pages, cfg, time.Second))

	index, err := os.ReadFile(filepath.Join(cfg.OutDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), `href="analysis.html"`)

	analysis, err := os.ReadFile(filepath.Join(cfg.OutDir, "analysis.html"))
	require.NoError(t, err)
	assert.Contains(t, string(analysis), `href="index.html"`)
	assert.Contains(t, notices.String(), "Wrote 2 pages")
}

func TestSiteFileName(t *testing.T) {
	assert.Equal(t, "index.html", SiteFileName(schema.OverviewPage))
	assert.Equal(t, "modeling.html", SiteFileName(schema.ModelingPage))
}
