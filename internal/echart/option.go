// Package echart maps rendered charts onto go-echarts options and wraps them into HTML pages.
package echart

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Default chart canvas size.
const (
	DefaultWidth  = "100%"
	DefaultHeight = "360px"
)

// missingValue is the echarts marker for a gap in a series.
const missingValue = "-"

// Charter is the subset of a go-echarts chart needed to emit its option.
type Charter interface {
	Validate()
	JSONNotEscaped() template.HTML
}

// Size is the canvas size of a chart.
type Size struct {
	Width  string
	Height string
}

// DefaultSize fills the container width.
var DefaultSize = Size{Width: DefaultWidth, Height: DefaultHeight}

// Build creates the go-echarts chart for c. Placeholders have no chart.
func Build(c schema.RenderedChart, size Size) (Charter, error) {
	if c.IsPlaceholder() {
		return nil, fmt.Errorf("chart %s is a placeholder: %s", c.ID, c.Placeholder)
	}
	global := globalOptions(c, size)

	switch c.Type {
	case schema.BarChart:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(c.Categories)
		for _, s := range c.Series {
			addBarSeries(bar, s)
		}
		return bar, nil
	case schema.LineChart, schema.AreaChart:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(c.Categories)
		for _, s := range c.Series {
			addLineSeries(line, s)
		}
		return line, nil
	case schema.ScatterChart:
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(global...)
		scatter.SetXAxis(c.Categories)
		for _, s := range c.Series {
			addScatterSeries(scatter, s)
		}
		return scatter, nil
	case schema.ComposedChart:
		return buildComposed(c, global), nil
	case schema.PieChart:
		return buildPie(c, global), nil
	case schema.RadarChart:
		return buildRadar(c, global), nil
	default:
		return nil, fmt.Errorf("chart %s has unsupported type %q", c.ID, c.Type)
	}
}

// OptionJSON returns the echarts option object of c, ready for a script block.
func OptionJSON(c schema.RenderedChart, size Size) (template.JS, error) {
	chart, err := Build(c, size)
	if err != nil {
		return "", err
	}
	chart.Validate()
	return template.JS(scriptSafe.Replace(string(chart.JSONNotEscaped()))), nil
}

// scriptSafe keeps artifact text from closing the surrounding script element.
// The escapes are only valid inside JSON strings, which is the only place these runes occur.
var scriptSafe = strings.NewReplacer("<", `\u003c`, ">", `\u003e`, "&", `\u0026`)

func globalOptions(c schema.RenderedChart, size Size) []charts.GlobalOpts {
	trigger := "axis"
	switch c.Type {
	case schema.PieChart, schema.RadarChart, schema.ScatterChart:
		trigger = "item"
	}
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{ChartID: c.ID, Width: size.Width, Height: size.Height}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}),
	}
	if c.Type != schema.PieChart && c.Type != schema.RadarChart {
		global = append(global,
			charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel}),
			charts.WithYAxisOpts(opts.YAxis{Name: YAxisName(c)}),
		)
	}
	return global
}

// YAxisName joins the value-axis label and unit, e.g. "Price (THB)".
func YAxisName(c schema.RenderedChart) string {
	switch {
	case c.YLabel != "" && c.YUnit != "":
		return c.YLabel + " (" + c.YUnit + ")"
	case c.YUnit != "":
		return c.YUnit
	default:
		return c.YLabel
	}
}

func pointValue(p schema.RenderedPoint) any {
	if p.Missing {
		return missingValue
	}
	return p.Value
}

func addBarSeries(bar *charts.Bar, s schema.RenderedSeries) {
	data := make([]opts.BarData, len(s.Points))
	for i, p := range s.Points {
		data[i] = opts.BarData{Name: p.Category, Value: pointValue(p)}
	}
	bar.AddSeries(s.Name, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		charts.WithBarChartOpts(opts.BarChart{Stack: s.StackID}),
	)
}

func addLineSeries(line *charts.Line, s schema.RenderedSeries) {
	data := make([]opts.LineData, len(s.Points))
	for i, p := range s.Points {
		data[i] = opts.LineData{Name: p.Category, Value: pointValue(p)}
	}
	options := []charts.SeriesOpts{
		charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		charts.WithLineChartOpts(opts.LineChart{Stack: s.StackID}),
	}
	if s.Primitive == schema.AreaSeries {
		options = append(options, charts.WithAreaStyleOpts(opts.AreaStyle{Color: Translucent(s.Color, 0.3)}))
	}
	line.AddSeries(s.Name, data, options...)
}

func addScatterSeries(scatter *charts.Scatter, s schema.RenderedSeries) {
	data := make([]opts.ScatterData, 0, len(s.Points))
	for _, p := range s.Points {
		data = append(data, opts.ScatterData{Name: p.Category, Value: pointValue(p)})
	}
	scatter.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
}

// buildComposed puts every series on one bar base in config order, each keeping its
// own primitive, so legend and drawing order match the configuration.
func buildComposed(c schema.RenderedChart, global []charts.GlobalOpts) *charts.Bar {
	base := charts.NewBar()
	base.SetGlobalOptions(global...)
	base.SetXAxis(c.Categories)

	for _, s := range c.Series {
		switch s.Primitive {
		case schema.BarSeries:
			addBarSeries(base, s)
		case schema.ScatterSeries:
			scatter := charts.NewScatter()
			addScatterSeries(scatter, s)
			base.MultiSeries = append(base.MultiSeries, scatter.MultiSeries...)
		default:
			line := charts.NewLine()
			addLineSeries(line, s)
			base.MultiSeries = append(base.MultiSeries, line.MultiSeries...)
		}
	}
	return base
}

func buildPie(c schema.RenderedChart, global []charts.GlobalOpts) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(global...)
	data := make([]opts.PieData, len(c.Slices))
	for i, s := range c.Slices {
		data[i] = opts.PieData{Name: s.Label, Value: s.Value, ItemStyle: &opts.ItemStyle{Color: s.Color}}
	}
	pie.AddSeries(c.Title, data)
	return pie
}

func buildRadar(c schema.RenderedChart, global []charts.GlobalOpts) *charts.Radar {
	radar := charts.NewRadar()
	indicators := make([]*opts.Indicator, len(c.Indicators))
	for i, ind := range c.Indicators {
		indicators[i] = &opts.Indicator{Name: ind.Name, Max: float32(ind.Max)}
	}
	global = append(global, charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}))
	radar.SetGlobalOptions(global...)

	for _, s := range c.Series {
		values := make([]float64, len(s.Points))
		for i, p := range s.Points {
			values[i] = p.Value
		}
		radar.AddSeries(s.Name, []opts.RadarData{{Name: s.Name, Value: values}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		)
	}
	return radar
}

// Translucent turns "#rrggbb" into an rgba() color with the given alpha.
// Anything else is returned unchanged.
func Translucent(hex string, alpha float64) string {
	if len(hex) != 7 || hex[0] != '#' {
		return hex
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return hex
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", v>>16&0xff, v>>8&0xff, v&0xff, strconv.FormatFloat(alpha, 'f', -1, 64))
}
