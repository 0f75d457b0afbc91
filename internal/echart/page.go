package echart

import (
	"html/template"
	"io"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/microcosm-cc/bluemonday"
)

// NavLink is one entry of the page navigation bar.
type NavLink struct {
	Title  string
	Href   string
	Active bool
}

// PageOptions controls how a page document is assembled.
type PageOptions struct {
	AssetsHost string
	Nav        []NavLink
	Size       Size
}

type chartView struct {
	ID          string
	Title       string
	Description template.HTML
	Placeholder string
	Option      template.JS
}

type tableView struct {
	Title   string
	Columns []string
	Rows    [][]string
	Summary string
}

type pageView struct {
	Title       string
	Description string
	Source      string
	AssetsHost  string
	Nav         []NavLink
	Cards       []schema.StatCard
	Charts      []chartView
	Tables      []tableView
	Empty       string
	Size        Size
}

var descriptionPolicy = bluemonday.UGCPolicy()

// SanitizeDescription strips unsafe markup from a chart description.
func SanitizeDescription(s string) template.HTML {
	return template.HTML(descriptionPolicy.Sanitize(s))
}

// WritePage renders a full HTML document for page.
// Placeholder charts become text blocks; every other chart gets an echarts canvas.
func WritePage(w io.Writer, page schema.RenderedPage, o PageOptions) error {
	if o.Size.Width == "" || o.Size.Height == "" {
		o.Size = DefaultSize
	}
	view := pageView{
		Title:       page.Title,
		Description: page.Description,
		Source:      string(page.Source),
		AssetsHost:  o.AssetsHost,
		Nav:         o.Nav,
		Cards:       page.Cards,
		Empty:       page.Empty,
		Size:        o.Size,
	}
	for _, c := range page.Charts {
		cv := chartView{
			ID:          c.ID,
			Title:       c.Title,
			Description: SanitizeDescription(c.Description),
			Placeholder: c.Placeholder,
		}
		if !c.IsPlaceholder() {
			option, err := OptionJSON(c, o.Size)
			if err != nil {
				cv.Placeholder = err.Error()
			} else {
				cv.Option = option
			}
		}
		view.Charts = append(view.Charts, cv)
	}
	for _, t := range page.Tables {
		view.Tables = append(view.Tables, tableView{
			Title:   t.Title,
			Columns: t.Columns,
			Rows:    t.Rows,
			Summary: fullTableView(t).Summary(),
		})
	}
	return pageTemplate.Execute(w, view)
}

// fullTableView shows every row of t on a single page.
func fullTableView(t schema.DataTable) schema.TableView {
	n := len(t.Rows)
	v := schema.TableView{Table: t, PageNumber: 1, PageSize: n, TotalPages: 1, Matched: n, To: n}
	if n > 0 {
		v.From = 1
	}
	return v
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}</title>
<script src="{{ .AssetsHost }}echarts.min.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #0f1117; color: #e5e7eb; }
nav { display: flex; gap: 1rem; padding: 1rem 2rem; background: #18181b; }
nav a { color: #9ca3af; text-decoration: none; }
nav a.active { color: #3b82f6; font-weight: 600; }
main { padding: 1.5rem 2rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 1rem; margin-bottom: 1.5rem; }
.card, .panel { background: #18181b; border: 1px solid #ffffff14; border-radius: 12px; padding: 1rem 1.25rem; }
.card .value { font-size: 1.75rem; font-weight: 700; }
.grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(480px, 1fr)); gap: 1.5rem; }
.placeholder { color: #f59e0b; padding: 2rem 0; text-align: center; }
.empty { color: #9ca3af; padding: 3rem 0; text-align: center; }
.source { color: #6b7280; font-size: 0.85rem; }
table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
th, td { padding: 0.5rem 0.75rem; text-align: left; border-bottom: 1px solid #ffffff0d; }
</style>
</head>
<body>
{{- if .Nav }}
<nav>
{{- range .Nav }}
<a href="{{ .Href }}"{{ if .Active }} class="active"{{ end }}>{{ .Title }}</a>
{{- end }}
</nav>
{{- end }}
<main>
<h1>{{ .Title }}</h1>
<p>{{ .Description }}</p>
<p class="source">Chart source: {{ .Source }}</p>
{{- if .Cards }}
<section class="cards">
{{- range .Cards }}
<div class="card"><div class="label">{{ .Title }}</div><div class="value">{{ .Value }}</div>{{ if .Hint }}<div class="source">{{ .Hint }}</div>{{ end }}</div>
{{- end }}
</section>
{{- end }}
{{- if .Empty }}
<div class="empty">{{ .Empty }}</div>
{{- else }}
<section class="grid">
{{- range .Charts }}
<div class="panel">
<h3>{{ .Title }}</h3>
{{- if .Description }}<p>{{ .Description }}</p>{{ end }}
{{- if .Placeholder }}
<div class="placeholder" id="{{ .ID }}">{{ .Placeholder }}</div>
{{- else }}
<div id="{{ .ID }}" style="width:{{ $.Size.Width }};height:{{ $.Size.Height }};"></div>
<script>
echarts.init(document.getElementById({{ .ID }}), "dark").setOption({{ .Option }});
</script>
{{- end }}
</div>
{{- end }}
</section>
{{- end }}
{{- range .Tables }}
<section class="panel">
<h2>{{ .Title }}</h2>
<table>
<thead><tr>{{ range .Columns }}<th>{{ . }}</th>{{ end }}</tr></thead>
<tbody>
{{- range .Rows }}
<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>
{{- end }}
</tbody>
</table>
<p class="source">{{ .Summary }}</p>
</section>
{{- end }}
</main>
</body>
</html>
`))
