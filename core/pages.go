package core

import (
	"fmt"
	"path"
	"strings"

	"github.com/chartdeck/chartdeck/schema"
)

// Artifact locations relative to the source root.
const (
	chartsDir           = "data/charts"
	AnalysisSummaryPath = "data/analysis/analysis_summary.json"
	ModelMetricsPath    = "data/modeling/model_metrics.json"
)

// BundlePath returns the primary chart bundle of a page.
func BundlePath(page schema.PageName) string {
	return path.Join(chartsDir, string(page)+".toml")
}

// DemoBundlePath returns the fallback chart bundle of a page.
func DemoBundlePath(page schema.PageName) string {
	return path.Join(chartsDir, string(page)+"_demo.toml")
}

var pageCatalogue = []schema.PageSpec{
	{
		Name:         schema.OverviewPage,
		Title:        "Dashboard Overview",
		Description:  "Headline figures for the car sales dataset and the price model.",
		Bundle:       BundlePath(schema.OverviewPage),
		DemoBundle:   DemoBundlePath(schema.OverviewPage),
		MetricsFiles: []string{AnalysisSummaryPath, ModelMetricsPath},
	},
	{
		Name:         schema.AnalysisPage,
		Title:        "Detailed Analysis",
		Description:  "Price trends and brand breakdowns from the exploratory analysis.",
		Bundle:       BundlePath(schema.AnalysisPage),
		DemoBundle:   DemoBundlePath(schema.AnalysisPage),
		MetricsFiles: []string{AnalysisSummaryPath},
	},
	{
		Name:         schema.DataPage,
		Title:        "Raw Data Explorer",
		Description:  "Searchable tables over the summarized records.",
		Bundle:       BundlePath(schema.DataPage),
		DemoBundle:   DemoBundlePath(schema.DataPage),
		MetricsFiles: []string{AnalysisSummaryPath},
	},
	{
		Name:         schema.ModelingPage,
		Title:        "Model Performance",
		Description:  "Accuracy and feature importance of the price prediction model.",
		Bundle:       BundlePath(schema.ModelingPage),
		DemoBundle:   DemoBundlePath(schema.ModelingPage),
		MetricsFiles: []string{ModelMetricsPath},
	},
}

// Pages returns the page catalogue in navigation order.
func Pages() []schema.PageSpec {
	out := make([]schema.PageSpec, len(pageCatalogue))
	copy(out, pageCatalogue)
	return out
}

// LookupPage finds a page by name, case-insensitively.
func LookupPage(name string) (schema.PageSpec, error) {
	want := schema.PageName(strings.ToLower(strings.TrimSpace(name)))
	if want == "" {
		want = schema.OverviewPage
	}
	for _, p := range pageCatalogue {
		if p.Name == want {
			return p, nil
		}
	}
	return schema.PageSpec{}, fmt.Errorf("unknown page '%s'. must be overview, analysis, data, modeling", name)
}
