package schema

// PageSpec describes where a dashboard page gets its artifacts from.
// Paths are relative to the source root and the deployment base path.
type PageSpec struct {
	Name         PageName `json:"name"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Bundle       string   `json:"bundle"`
	DemoBundle   string   `json:"demo_bundle"`
	MetricsFiles []string `json:"metrics_files"`
}

// PageData is everything a page loader hands to the renderer.
type PageData struct {
	Charts  []ChartConfiguration
	Source  BundleSource
	Metrics Metrics
}
