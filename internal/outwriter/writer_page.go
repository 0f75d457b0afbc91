package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/echart"
	"github.com/chartdeck/chartdeck/internal/parquet"
	"github.com/chartdeck/chartdeck/schema"
)

// pageCSVHeader is the long-format layout of a page export.
var pageCSVHeader = []string{"chart_id", "chart_title", "chart_type", "series", "category", "value", "percent", "color", "placeholder"}

func writePage(w io.Writer, page schema.RenderedPage, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, page)
	case schema.CSVOut:
		return writePageCSV(w, page, cfg)
	case schema.HTMLOut:
		return echart.WritePage(w, page, echart.PageOptions{AssetsHost: cfg.AssetsHost})
	case schema.ParquetOut:
		return parquet.WritePoints(w, parquet.PagePoints(page))
	default:
		return writePageText(w, page, cfg, duration)
	}
}

func writePageText(w io.Writer, page schema.RenderedPage, cfg *contract.Config, duration time.Duration) error {
	title := page.Title
	if cfg.UseColors {
		title = contract.TitleColor.Sprint(title)
	}
	_, _ = fmt.Fprintf(w, "%s\n", title)
	if page.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n", page.Description)
	}
	_, _ = fmt.Fprintf(w, "Chart source: %s\n\n", contract.SourceLabel(string(page.Source), cfg.UseColors))

	if len(page.Cards) > 0 {
		if err := writeCardsTable(w, page.Cards, cfg); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w)
	}

	if page.Empty != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", muted(page.Empty, cfg))
	}
	for _, c := range page.Charts {
		if err := writeChartText(w, c, cfg); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w)
	}

	for _, t := range page.Tables {
		_, _ = fmt.Fprintf(w, "%s (%d rows)\n", t.Title, len(t.Rows))
	}
	if len(page.Tables) > 0 {
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "Rendered %d charts (%d placeholders) in %v. Run backend: %s\n",
		len(page.Charts), page.PlaceholderCount(), duration.Round(time.Millisecond), cfg.RunBackend)
	return nil
}

func writeChartText(w io.Writer, c schema.RenderedChart, cfg *contract.Config) error {
	heading := fmt.Sprintf("[%s] %s", c.Type, c.Title)
	if c.Type == "" {
		heading = c.Title
	}
	if cfg.UseColors {
		heading = contract.TitleColor.Sprint(heading)
	}
	_, _ = fmt.Fprintf(w, "%s\n", heading)
	if c.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n", c.Description)
	}

	if c.IsPlaceholder() {
		text := c.Placeholder
		if cfg.UseColors {
			text = contract.PlaceholderColor.Sprint(text)
		}
		_, _ = fmt.Fprintf(w, "%s\n", text)
		return nil
	}

	fmtFloat := newFloatFormatter(cfg.Precision)
	if c.Type == schema.PieChart {
		if err := writeSlicesTable(w, c, cfg, fmtFloat); err != nil {
			return err
		}
	} else if err := writeSeriesTable(w, c, cfg, fmtFloat); err != nil {
		return err
	}

	if len(c.Legend) > 0 {
		entries := make([]string, 0, len(c.Legend))
		for _, l := range c.Legend {
			entries = append(entries, contract.Swatch(l.Color, cfg.UseColors)+" "+l.Name)
		}
		_, _ = fmt.Fprintf(w, "Legend: %s\n", strings.Join(entries, "  "))
	}
	return nil
}

// writeSeriesTable lays a chart out as categories by series.
func writeSeriesTable(w io.Writer, c schema.RenderedChart, cfg *contract.Config, fmtFloat func(float64) string) error {
	first := c.XLabel
	if first == "" {
		first = "Category"
	}
	headers := []string{first}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
	}
	width := GetMaxCellWidth(cfg, len(headers))
	for i := range headers {
		headers[i] = contract.TruncateText(headers[i], width)
	}

	rows := make([][]string, 0, len(c.Categories))
	for i, category := range c.Categories {
		row := []string{category}
		for _, s := range c.Series {
			row = append(row, pointCell(s.Points, i, fmtFloat))
		}
		rows = append(rows, truncateRow(row, width))
	}
	return renderTable(w, headers, rows)
}

func pointCell(points []schema.RenderedPoint, i int, fmtFloat func(float64) string) string {
	if i >= len(points) || points[i].Missing {
		return missingCell
	}
	return fmtFloat(points[i].Value)
}

func writeSlicesTable(w io.Writer, c schema.RenderedChart, cfg *contract.Config, fmtFloat func(float64) string) error {
	width := GetMaxCellWidth(cfg, 4)
	rows := make([][]string, 0, len(c.Slices))
	for _, s := range c.Slices {
		rows = append(rows, truncateRow([]string{
			s.Name,
			fmtFloat(s.Value),
			strconv.Itoa(s.Percent) + "%",
			s.Color,
		}, width))
	}
	return renderTable(w, []string{"Name", "Value", "Share", "Color"}, rows)
}

func writeCardsTable(w io.Writer, cards []schema.StatCard, cfg *contract.Config) error {
	width := GetMaxCellWidth(cfg, 3)
	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, truncateRow([]string{card.Title, card.Value, card.Hint}, width))
	}
	return renderTable(w, []string{"Metric", "Value", "Note"}, rows)
}

// writePageCSV writes one row per point, slice or placeholder chart.
func writePageCSV(w io.Writer, page schema.RenderedPage, cfg *contract.Config) error {
	fmtFloat := newFloatFormatter(cfg.Precision)
	return writeCSVWithHeader(w, pageCSVHeader, func(cw *csv.Writer) error {
		for _, c := range page.Charts {
			for _, rec := range chartCSVRows(c, fmtFloat) {
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func chartCSVRows(c schema.RenderedChart, fmtFloat func(float64) string) [][]string {
	base := func(series, category, value, percent, color string, placeholder bool) []string {
		return []string{c.ID, c.Title, string(c.Type), series, category, value, percent, color, strconv.FormatBool(placeholder)}
	}
	if c.IsPlaceholder() {
		return [][]string{base("", "", "", "", "", true)}
	}
	var rows [][]string
	if c.Type == schema.PieChart {
		for _, s := range c.Slices {
			rows = append(rows, base(c.Title, s.Name, fmtFloat(s.Value), strconv.Itoa(s.Percent), s.Color, false))
		}
		return rows
	}
	for _, s := range c.Series {
		for _, p := range s.Points {
			value := ""
			if !p.Missing {
				value = fmtFloat(p.Value)
			}
			rows = append(rows, base(s.Name, p.Category, value, "", s.Color, false))
		}
	}
	return rows
}

func muted(s string, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.MutedColor.Sprint(s)
	}
	return s
}
