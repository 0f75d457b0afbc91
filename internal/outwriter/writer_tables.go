package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/schema"
)

type metricsOutput struct {
	Page  schema.PageName   `json:"page"`
	Cards []schema.StatCard `json:"cards"`
}

func writeMetrics(w io.Writer, spec schema.PageSpec, cards []schema.StatCard, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, metricsOutput{Page: spec.Name, Cards: cards})
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"page", "title", "value", "hint"}, func(cw *csv.Writer) error {
			for _, c := range cards {
				if err := cw.Write([]string{string(spec.Name), c.Title, c.Value, c.Hint}); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.TextOut:
		_, _ = fmt.Fprintf(w, "%s metrics\n", spec.Title)
		if len(cards) == 0 {
			_, _ = fmt.Fprintf(w, "%s\n", muted(schema.NoResultsText, cfg))
			return nil
		}
		return writeCardsTable(w, cards, cfg)
	default:
		return errUnsupported(cfg.Output, "metrics")
	}
}

func writeTableList(w io.Writer, tables []schema.DataTable, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, tables)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"name", "title", "columns", "rows"}, func(cw *csv.Writer) error {
			for _, t := range tables {
				if err := cw.Write([]string{t.Name, t.Title, strings.Join(t.Columns, ";"), strconv.Itoa(len(t.Rows))}); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.TextOut:
		if len(tables) == 0 {
			_, _ = fmt.Fprintf(w, "%s\n", muted(schema.NoResultsText, cfg))
			return nil
		}
		width := GetMaxCellWidth(cfg, 4)
		rows := make([][]string, 0, len(tables))
		for _, t := range tables {
			rows = append(rows, truncateRow([]string{t.Name, t.Title, strings.Join(t.Columns, ", "), strconv.Itoa(len(t.Rows))}, width))
		}
		return renderTable(w, []string{"Name", "Title", "Columns", "Rows"}, rows)
	default:
		return errUnsupported(cfg.Output, "table listings")
	}
}

func writeTableView(w io.Writer, view schema.TableView, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, view)
	case schema.CSVOut:
		return writeCSVWithHeader(w, view.Table.Columns, func(cw *csv.Writer) error {
			return cw.WriteAll(view.Table.Rows)
		})
	case schema.TextOut:
		title := view.Table.Title
		if cfg.UseColors {
			title = contract.TitleColor.Sprint(title)
		}
		_, _ = fmt.Fprintf(w, "%s\n", title)
		if view.Search != "" {
			_, _ = fmt.Fprintf(w, "Search: %q\n", view.Search)
		}
		if len(view.Table.Rows) == 0 {
			_, _ = fmt.Fprintf(w, "%s\n", muted(schema.NoResultsText, cfg))
		} else {
			width := GetMaxCellWidth(cfg, len(view.Table.Columns))
			rows := make([][]string, 0, len(view.Table.Rows))
			for _, r := range view.Table.Rows {
				rows = append(rows, truncateRow(r, width))
			}
			if err := renderTable(w, truncateRow(view.Table.Columns, width), rows); err != nil {
				return err
			}
		}
		_, _ = fmt.Fprintf(w, "%s\n", view.Summary())
		_, _ = fmt.Fprintf(w, "Page %d of %d\n", view.PageNumber, max(view.TotalPages, 1))
		return nil
	default:
		return errUnsupported(cfg.Output, "tables")
	}
}

func writePageSpecs(w io.Writer, specs []schema.PageSpec, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, specs)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"name", "title", "bundle", "demo_bundle", "metrics_files"}, func(cw *csv.Writer) error {
			for _, s := range specs {
				if err := cw.Write([]string{string(s.Name), s.Title, s.Bundle, s.DemoBundle, strings.Join(s.MetricsFiles, ";")}); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.TextOut:
		width := GetMaxCellWidth(cfg, 5)
		rows := make([][]string, 0, len(specs))
		for _, s := range specs {
			rows = append(rows, truncateRow([]string{
				string(s.Name), s.Title, dashIfEmpty(s.Bundle), dashIfEmpty(s.DemoBundle), dashIfEmpty(strings.Join(s.MetricsFiles, ", ")),
			}, width))
		}
		return renderTable(w, []string{"Page", "Title", "Bundle", "Demo", "Metrics"}, rows)
	default:
		return errUnsupported(cfg.Output, "the page list")
	}
}

func dashIfEmpty(s string) string {
	if s == "" {
		return missingCell
	}
	return s
}
