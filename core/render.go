package core

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chartdeck/chartdeck/schema"
)

// ChartID returns the positional id of the chart at index.
func ChartID(index int) string {
	return "chart-" + strconv.Itoa(index)
}

// RenderAll renders every configuration, assigning ids by position.
func RenderAll(configs []schema.ChartConfiguration) []schema.RenderedChart {
	charts := make([]schema.RenderedChart, 0, len(configs))
	for i := range configs {
		chart := Render(configs[i])
		chart.ID = ChartID(i)
		charts = append(charts, chart)
	}
	return charts
}

// Render turns one chart configuration into a backend-neutral chart.
// It never fails: anything that cannot be drawn becomes a placeholder.
func Render(cfg schema.ChartConfiguration) schema.RenderedChart {
	out := schema.RenderedChart{
		Title:       cfg.Title,
		Description: cfg.Description,
		Type:        cfg.Type,
		RowCount:    len(cfg.Data),
	}
	if _, ok := schema.ValidChartTypes[cfg.Type]; !ok {
		out.Placeholder = fmt.Sprintf("%s: %s", schema.UnsupportedChartText, cfg.Type)
		return out
	}
	if cfg.Data == nil {
		out.Placeholder = schema.NoRowsText
		return out
	}
	if cfg.XAxis != nil {
		out.XLabel = cfg.XAxis.Label
	}
	if cfg.YAxis != nil {
		out.YLabel = cfg.YAxis.Label
		out.YUnit = cfg.YAxis.Unit
	}

	switch cfg.Type {
	case schema.PieChart:
		renderPie(&cfg, &out)
	case schema.RadarChart:
		renderCartesian(&cfg, &out)
		renderRadarIndicators(&out)
	default:
		renderCartesian(&cfg, &out)
	}
	return out
}

// renderCartesian covers bar, line, area, scatter, composed and the radar series.
func renderCartesian(cfg *schema.ChartConfiguration, out *schema.RenderedChart) {
	xKey := cfg.XDataKey()
	out.Categories = make([]string, len(cfg.Data))
	for i, row := range cfg.Data {
		if xKey == "" {
			out.Categories[i] = strconv.Itoa(i + 1)
			continue
		}
		out.Categories[i] = row.Text(xKey)
	}

	out.Series = make([]schema.RenderedSeries, 0, len(cfg.Series))
	out.Legend = make([]schema.LegendEntry, 0, len(cfg.Series))
	for i, spec := range cfg.Series {
		primitive := primitiveFor(cfg.Type, spec.Type)
		rs := schema.RenderedSeries{
			Index:     i,
			DataKey:   spec.DataKey,
			Name:      spec.Name,
			Color:     seriesColor(spec.Color, i),
			Primitive: primitive,
			Points:    make([]schema.RenderedPoint, len(cfg.Data)),
		}
		if stackable(cfg.Type, primitive) {
			rs.StackID = spec.StackID
		}
		for j, row := range cfg.Data {
			v, ok := row.Number(spec.DataKey)
			rs.Points[j] = schema.RenderedPoint{Category: out.Categories[j], Value: v, Missing: !ok}
		}
		out.Series = append(out.Series, rs)
		out.Legend = append(out.Legend, schema.LegendEntry{Name: rs.Name, Color: rs.Color})
	}
}

// primitiveFor resolves the drawing primitive of one series.
func primitiveFor(chartType schema.ChartType, seriesType schema.SeriesType) schema.SeriesType {
	switch chartType {
	case schema.BarChart:
		return schema.BarSeries
	case schema.AreaChart:
		return schema.AreaSeries
	case schema.ScatterChart:
		return schema.ScatterSeries
	case schema.ComposedChart:
		switch seriesType {
		case schema.BarSeries, schema.AreaSeries, schema.ScatterSeries:
			return seriesType
		default:
			return schema.LineSeries
		}
	default:
		return schema.LineSeries
	}
}

// stackable reports whether stackId applies to the series.
func stackable(chartType schema.ChartType, primitive schema.SeriesType) bool {
	switch chartType {
	case schema.BarChart, schema.LineChart, schema.AreaChart:
		return true
	case schema.ComposedChart:
		return primitive == schema.BarSeries || primitive == schema.AreaSeries
	default:
		return false
	}
}

// renderRadarIndicators adds one spoke per category sharing a common max.
func renderRadarIndicators(out *schema.RenderedChart) {
	top := 0.0
	for _, s := range out.Series {
		for _, p := range s.Points {
			if !p.Missing && p.Value > top {
				top = p.Value
			}
		}
	}
	if top == 0 {
		top = 1
	}
	out.Indicators = make([]schema.RadarIndicator, len(out.Categories))
	for i, c := range out.Categories {
		out.Indicators[i] = schema.RadarIndicator{Name: c, Max: top}
	}
}

func renderPie(cfg *schema.ChartConfiguration, out *schema.RenderedChart) {
	if len(cfg.Series) == 0 {
		out.Placeholder = schema.PieNoSeriesText
		return
	}
	valueKey := cfg.Series[0].DataKey
	nameKey := cfg.XDataKey()
	if nameKey == "" {
		nameKey = schema.DefaultPieNameKey
	}

	values := make([]float64, len(cfg.Data))
	sum := 0.0
	for i, row := range cfg.Data {
		v, _ := row.Number(valueKey)
		values[i] = v
		sum += v
	}

	out.Slices = make([]schema.PieSlice, len(cfg.Data))
	out.Legend = make([]schema.LegendEntry, len(cfg.Data))
	for i, row := range cfg.Data {
		name := row.Text(nameKey)
		pct := 0
		if sum != 0 {
			pct = int(math.Round(values[i] / sum * 100))
		}
		color := seriesColor(cfg.Series[0].Color, i)
		out.Slices[i] = schema.PieSlice{
			Name:    name,
			Value:   values[i],
			Percent: pct,
			Label:   fmt.Sprintf("%s (%d%%)", name, pct),
			Color:   color,
		}
		out.Legend[i] = schema.LegendEntry{Name: name, Color: color}
	}
}

// Tooltip returns the hover lines for the category at index.
// Series with a missing point at that index are left out.
func Tooltip(chart schema.RenderedChart, index int) []string {
	if chart.IsPlaceholder() {
		return nil
	}
	if chart.Type == schema.PieChart {
		if index < 0 || index >= len(chart.Slices) {
			return nil
		}
		s := chart.Slices[index]
		return []string{fmt.Sprintf("%s: %s", s.Name, schema.FormatNumber(s.Value))}
	}
	var lines []string
	for _, s := range chart.Series {
		if index < 0 || index >= len(s.Points) || s.Points[index].Missing {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", s.Name, schema.FormatNumber(s.Points[index].Value)))
	}
	return lines
}
