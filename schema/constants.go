package schema

// Custom string types for type safety.
type (
	// ChartType selects the rendering strategy of a chart.
	ChartType string

	// SeriesType selects the per-series primitive inside a composed chart.
	SeriesType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for render-run tracking.
	DatabaseBackend string

	// BundleSource records which artifact a page's charts came from.
	BundleSource string

	// PageName identifies one dashboard page.
	PageName string
)

// All chart types supported by the renderer.
const (
	BarChart      ChartType = "bar"
	LineChart     ChartType = "line"
	AreaChart     ChartType = "area"
	PieChart      ChartType = "pie"
	RadarChart    ChartType = "radar"
	ScatterChart  ChartType = "scatter"
	ComposedChart ChartType = "composed"
)

// All series primitives usable inside a composed chart.
const (
	BarSeries     SeriesType = "bar"
	LineSeries    SeriesType = "line" // default
	AreaSeries    SeriesType = "area"
	ScatterSeries SeriesType = "scatter"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	HTMLOut    OutputMode = "html"
	ParquetOut OutputMode = "parquet"
)

// All run-tracking backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Where the charts of a page were loaded from.
const (
	PrimarySource BundleSource = "primary"
	DemoSource    BundleSource = "demo"
	NoSource      BundleSource = "none"
)

// All dashboard pages.
const (
	OverviewPage PageName = "overview" // default
	AnalysisPage PageName = "analysis"
	DataPage     PageName = "data"
	ModelingPage PageName = "modeling"
)

// Placeholder texts shown in place of missing content.
const (
	UnsupportedChartText = "Unsupported chart type"
	NoChartDataText      = "No chart data available"
	NoRowsText           = "No data available for this chart"
	PieNoSeriesText      = "Pie chart requires at least one series"
	NoResultsText        = "No results found"
)

// DefaultPieNameKey is the row field holding slice names when xAxis is unset.
const DefaultPieNameKey = "name"

// AllChartTypes lists chart types in documentation order.
var AllChartTypes = []ChartType{BarChart, LineChart, AreaChart, PieChart, RadarChart, ScatterChart, ComposedChart}

// ValidChartTypes lists all chart types the renderer can draw.
var ValidChartTypes = map[ChartType]struct{}{
	BarChart:      {},
	LineChart:     {},
	AreaChart:     {},
	PieChart:      {},
	RadarChart:    {},
	ScatterChart:  {},
	ComposedChart: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	HTMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run-tracking backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
