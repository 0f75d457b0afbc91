package core

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/dustin/go-humanize"
)

// Metric field names read from the metrics documents.
const (
	fieldTotalRecords = "total_records"
	fieldAveragePrice = "average_price"
	fieldTotalStock   = "total_stock"
	fieldModelName    = "model_name"
	fieldAccuracy     = "accuracy"
	fieldR2Score      = "r2_score"
)

// Table defaults.
const (
	DefaultPageSize = 10
	noModelText     = "No Model Loaded"
)

// StatCards builds the headline numbers for a page from its merged metrics.
// Missing metrics render as zero.
func StatCards(page schema.PageName, m schema.Metrics) []schema.StatCard {
	switch page {
	case schema.OverviewPage:
		return []schema.StatCard{
			{Title: "Total Cars", Value: formatCount(m, fieldTotalRecords)},
			{Title: "Model Accuracy", Value: formatPercent(m, fieldAccuracy)},
			{Title: "Avg Price", Value: formatPrice(m, fieldAveragePrice)},
			{Title: "Total Stock", Value: formatCount(m, fieldTotalStock)},
		}
	case schema.AnalysisPage:
		return []schema.StatCard{
			{Title: "Total Cars", Value: formatCount(m, fieldTotalRecords)},
			{Title: "Avg Price", Value: formatPrice(m, fieldAveragePrice)},
		}
	case schema.ModelingPage:
		name, _ := m[fieldModelName].(string)
		if name == "" {
			name = noModelText
		}
		return []schema.StatCard{
			{Title: "Model", Value: name},
			{Title: "Accuracy", Value: formatPercent(m, fieldAccuracy), Hint: "Test set accuracy"},
			{Title: "R² Score", Value: formatPercent(m, fieldR2Score), Hint: "Coefficient of determination"},
		}
	default:
		return nil
	}
}

func metricNumber(m schema.Metrics, key string) float64 {
	v, ok := m[key]
	if !ok {
		return 0
	}
	f, ok := schema.ToFloat(v)
	if !ok {
		return 0
	}
	return f
}

func formatCount(m schema.Metrics, key string) string {
	return humanize.CommafWithDigits(metricNumber(m, key), 3)
}

func formatPrice(m schema.Metrics, key string) string {
	return "$" + humanize.Comma(int64(math.Round(metricNumber(m, key))))
}

func formatPercent(m schema.Metrics, key string) string {
	return fmt.Sprintf("%.1f%%", metricNumber(m, key)*100)
}

// MetricTables turns every array-of-objects field into a table, ordered by field name.
func MetricTables(m schema.Metrics) []schema.DataTable {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tables []schema.DataTable
	for _, k := range keys {
		records, ok := objectList(m[k])
		if !ok {
			continue
		}
		tables = append(tables, buildTable(k, records))
	}
	return tables
}

// objectList reports whether v is a non-empty list whose items are all objects.
func objectList(v any) ([]map[string]any, bool) {
	switch list := v.(type) {
	case []map[string]any:
		return list, len(list) > 0
	case []any:
		if len(list) == 0 {
			return nil, false
		}
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, obj)
		}
		return out, true
	default:
		return nil, false
	}
}

func buildTable(name string, records []map[string]any) schema.DataTable {
	var columns []string
	for _, r := range records {
		for k := range r {
			if !slices.Contains(columns, k) {
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = schema.FormatValue(r[c])
		}
		rows[i] = row
	}
	return schema.DataTable{
		Name:    name,
		Title:   schema.HumanizeKey(name),
		Columns: columns,
		Rows:    rows,
	}
}

// FindTable returns the table with the given field name.
func FindTable(tables []schema.DataTable, name string) (schema.DataTable, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return schema.DataTable{}, false
}

// FilterTable applies a case-insensitive search and 1-based pagination.
// Out-of-range page numbers are clamped.
func FilterTable(table schema.DataTable, search string, pageNumber, pageSize int) schema.TableView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	term := strings.ToLower(strings.TrimSpace(search))

	matched := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		if term == "" || rowContains(row, term) {
			matched = append(matched, row)
		}
	}

	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	pageNumber = max(1, min(pageNumber, totalPages))

	start := (pageNumber - 1) * pageSize
	end := min(start+pageSize, len(matched))

	view := schema.TableView{
		Table:      schema.DataTable{Name: table.Name, Title: table.Title, Columns: table.Columns, Rows: matched[start:end]},
		Search:     search,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Matched:    len(matched),
		To:         end,
	}
	if len(matched) > 0 {
		view.From = start + 1
	}
	return view
}

func rowContains(row []string, term string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell), term) {
			return true
		}
	}
	return false
}
