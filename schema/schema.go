// Package schema has the chart configuration contract, render models and shared constants.
package schema

import (
	"encoding/json"
	"math"
)

// AxisSpec binds the category axis to a row field.
type AxisSpec struct {
	DataKey string `json:"dataKey" toml:"dataKey" yaml:"dataKey"`
	Label   string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
}

// ValueAxisSpec describes the value axis.
type ValueAxisSpec struct {
	Label string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Unit  string `json:"unit,omitempty" toml:"unit,omitempty" yaml:"unit,omitempty"`
}

// SeriesSpec is one data series within a chart.
type SeriesSpec struct {
	DataKey string     `json:"dataKey" toml:"dataKey" yaml:"dataKey"`
	Name    string     `json:"name" toml:"name" yaml:"name"`
	Color   string     `json:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Type    SeriesType `json:"type,omitempty" toml:"type,omitempty" yaml:"type,omitempty"`
	StackID string     `json:"stackId,omitempty" toml:"stackId,omitempty" yaml:"stackId,omitempty"`
}

// Row is one data record; values are strings, numbers or nil.
type Row map[string]any

// ChartConfiguration is the declarative description of one chart.
// Data is nil when the source document had no data array at all.
type ChartConfiguration struct {
	Title       string         `json:"title" toml:"title" yaml:"title"`
	Description string         `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Type        ChartType      `json:"type" toml:"type" yaml:"type"`
	XAxis       *AxisSpec      `json:"xAxis,omitempty" toml:"xAxis,omitempty" yaml:"xAxis,omitempty"`
	YAxis       *ValueAxisSpec `json:"yAxis,omitempty" toml:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Series      []SeriesSpec   `json:"series" toml:"series" yaml:"series"`
	Data        []Row          `json:"data" toml:"data" yaml:"data"`
}

// Bundle is the top-level shape of a chart bundle file.
type Bundle struct {
	Charts []ChartConfiguration `json:"charts" toml:"charts" yaml:"charts"`
}

// XDataKey returns the category field, or "" when xAxis is unset.
func (c *ChartConfiguration) XDataKey() string {
	if c.XAxis == nil {
		return ""
	}
	return c.XAxis.DataKey
}

// Number returns the numeric value stored under key.
// Strings are not coerced; producers must emit real numbers.
func (r Row) Number(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	return ToFloat(v)
}

// Text returns the display form of the value stored under key.
func (r Row) Text(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return FormatValue(v)
}

// ToFloat converts any decoded numeric type to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
