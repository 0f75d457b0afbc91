package schema

// RenderedPoint is one value of a series at a category index.
// Missing points keep their slot so series stay aligned with Categories.
type RenderedPoint struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Missing  bool    `json:"missing,omitempty"`
}

// RenderedSeries is one drawn element of a chart.
type RenderedSeries struct {
	Index     int             `json:"index"`
	DataKey   string          `json:"data_key"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Primitive SeriesType      `json:"primitive"`
	StackID   string          `json:"stack_id,omitempty"`
	Points    []RenderedPoint `json:"points"`
}

// PieSlice is one row of a pie chart.
type PieSlice struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Percent int     `json:"percent"`
	Label   string  `json:"label"`
	Color   string  `json:"color"`
}

// RadarIndicator is one spoke of a radar chart.
type RadarIndicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

// LegendEntry maps a name to its swatch color.
type LegendEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// RenderedChart is the backend-neutral result of rendering one configuration.
// When Placeholder is set, nothing else but ID, Title and Description is meaningful.
type RenderedChart struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Type        ChartType        `json:"type"`
	Placeholder string           `json:"placeholder,omitempty"`
	XLabel      string           `json:"x_label,omitempty"`
	YLabel      string           `json:"y_label,omitempty"`
	YUnit       string           `json:"y_unit,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	Series      []RenderedSeries `json:"series,omitempty"`
	Slices      []PieSlice       `json:"slices,omitempty"`
	Indicators  []RadarIndicator `json:"indicators,omitempty"`
	Legend      []LegendEntry    `json:"legend,omitempty"`
	RowCount    int              `json:"row_count"`
}

// IsPlaceholder reports whether the chart renders as inline text only.
func (c RenderedChart) IsPlaceholder() bool {
	return c.Placeholder != ""
}

// StatCard is one headline number on a page.
type StatCard struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Hint  string `json:"hint,omitempty"`
}

// DataTable is a tabular view over one array-of-objects metrics field.
type DataTable struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// TableView is a filtered and paginated window over a DataTable.
type TableView struct {
	Table      DataTable `json:"table"`
	Search     string    `json:"search,omitempty"`
	PageNumber int       `json:"page_number"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	Matched    int       `json:"matched"`
	From       int       `json:"from"`
	To         int       `json:"to"`
}

// Summary returns the "Showing A to B of N entries" caption.
func (v TableView) Summary() string {
	return "Showing " + itoa(v.From) + " to " + itoa(v.To) + " of " + itoa(v.Matched) + " entries"
}

// Metrics is a flat metrics document keyed by field name.
type Metrics map[string]any

// RenderedPage is everything needed to present one dashboard page.
type RenderedPage struct {
	Page        PageName        `json:"page"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Source      BundleSource    `json:"source"`
	Cards       []StatCard      `json:"cards,omitempty"`
	Charts      []RenderedChart `json:"charts"`
	Tables      []DataTable     `json:"tables,omitempty"`
	Empty       string          `json:"empty,omitempty"`
}

// PlaceholderCount returns how many charts on the page render as text only.
func (p RenderedPage) PlaceholderCount() int {
	n := 0
	for _, c := range p.Charts {
		if c.IsPlaceholder() {
			n++
		}
	}
	return n
}
