package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFloatFormatter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{name: "precision 2", precision: 2, value: 1234.5678, expected: "1234.57"},
		{name: "precision 0", precision: 0, value: 1234.5678, expected: "1235"},
		{name: "precision 4", precision: 4, value: 0.3, expected: "0.3000"},
		{name: "negative value", precision: 1, value: -42.567, expected: "-42.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newFloatFormatter(tt.precision)(tt.value))
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	err := renderTable(&buf, []string{"Model", "Sales"}, [][]string{{"Civic", "120"}, {"Yaris", "-"}})
	require.NoError(t, err)
	out := buf.String()
	assert.Regexp(t, `(?i)model`, out)
	assert.Contains(t, out, "Civic")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "Yaris")
}

func helperPage() schema.RenderedPage {
	return schema.RenderedPage{
		Page:   schema.AnalysisPage,
		Title:  "Detailed Analysis",
		Source: schema.DemoSource,
		Charts: []schema.RenderedChart{
			{
				ID: "chart-0", Title: "Monthly Sales", Type: schema.BarChart, Categories: []string{"Jan", "Feb"},
				Series: []schema.RenderedSeries{{
					Name: "Units", Color: "#d92626", Primitive: schema.BarSeries,
					Points: []schema.RenderedPoint{{Category: "Jan", Value: 12.5}, {Category: "Feb", Missing: true}},
				}},
			},
			{ID: "chart-1", Title: "Heat", Type: "heatmap", Placeholder: "Unsupported chart type: heatmap"},
			{
				ID: "chart-2", Title: "Brand Share", Type: schema.PieChart,
				Slices: []schema.PieSlice{{Name: "Toyota", Value: 3, Percent: 75, Label: "Toyota (75%)", Color: "#d92626"}},
			},
		},
	}
}

func TestWriteJSONPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, helperPage()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"page\": \"analysis\""), "two-space indented object")
	assert.True(t, strings.HasSuffix(out, "}\n"))

	var page schema.RenderedPage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &page))
	require.Len(t, page.Charts, 3)
	assert.Equal(t, "Unsupported chart type: heatmap", page.Charts[1].Placeholder)
	assert.True(t, page.Charts[0].Series[0].Points[1].Missing)
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, schema.Metrics{"broken": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestChartCSVRows(t *testing.T) {
	page := helperPage()
	fmtFloat := newFloatFormatter(1)

	tests := []struct {
		name     string
		chart    schema.RenderedChart
		expected [][]string
	}{
		{
			name:  "series points keep missing values blank",
			chart: page.Charts[0],
			expected: [][]string{
				{"chart-0", "Monthly Sales", "bar", "Units", "Jan", "12.5", "", "#d92626", "false"},
				{"chart-0", "Monthly Sales", "bar", "Units", "Feb", "", "", "#d92626", "false"},
			},
		},
		{
			name:     "placeholder becomes one marker row",
			chart:    page.Charts[1],
			expected: [][]string{{"chart-1", "Heat", "heatmap", "", "", "", "", "", "true"}},
		},
		{
			name:     "pie slices use the chart title as series",
			chart:    page.Charts[2],
			expected: [][]string{{"chart-2", "Brand Share", "pie", "Brand Share", "Toyota", "3.0", "75", "#d92626", "false"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, chartCSVRows(tt.chart, fmtFloat))
		})
	}
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"name", "title"}, func(w *csv.Writer) error {
		return w.Write([]string{"brand_distribution", "Brand Distribution, by units"})
	})
	require.NoError(t, err)
	assert.Equal(t, "name,title\nbrand_distribution,\"Brand Distribution, by units\"\n", buf.String())
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, pageCSVHeader, func(w *csv.Writer) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var notices bytes.Buffer
	prev := statusOut
	statusOut = &notices
	t.Cleanup(func() { statusOut = prev })
	return &notices
}

func TestWriteWithFileStdoutIsSilent(t *testing.T) {
	notices := captureStatus(t)
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		return nil
	}, "Wrote page")

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, notices.String(), "stdout output gets no destination notice")
}

func TestWriteWithFilePageCSV(t *testing.T) {
	notices := captureStatus(t)
	tmpFile := filepath.Join(t.TempDir(), "nested", "analysis.csv")
	cfg := &contract.Config{Precision: 1}

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return writePageCSV(w, helperPage(), cfg)
	}, "Wrote CSV")
	require.NoError(t, err)
	assert.Equal(t, "💾 Wrote CSV to "+tmpFile+"\n", notices.String())

	f, err := os.Open(tmpFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5, "header, two points, one placeholder, one slice")
	assert.Equal(t, pageCSVHeader, records[0])
	assert.Equal(t, "true", records[3][8])
}

func TestWriteWithFileWriterError(t *testing.T) {
	notices := captureStatus(t)
	err := writeWithFile(filepath.Join(t.TempDir(), "page.json"), func(w io.Writer) error {
		return assert.AnError
	}, "Wrote JSON")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, notices.String(), "failed writes are not reported as saved")
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := writeWithFile(filepath.Join(blocker, "page.html"), func(w io.Writer) error {
		return nil
	}, "Wrote HTML")
	require.Error(t, err)
}
