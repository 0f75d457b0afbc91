package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/chartdeck/chartdeck/schema"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// UnwrapStrategy controls which document shapes a bundle may take.
type UnwrapStrategy int

const (
	// WrapperOnly accepts only { charts = [...] }.
	WrapperOnly UnwrapStrategy = iota
	// WrapperOrBare also accepts a single bare chart, wrapped into a one-element list.
	WrapperOrBare
)

// Format is a document encoding chosen by file extension.
type Format string

// Supported formats.
const (
	TOMLFormat Format = "toml"
	JSONFormat Format = "json"
	YAMLFormat Format = "yaml"
)

var errBareChart = errors.New("document has neither a charts list nor a chart type")

// FormatFor returns the format of the artifact at p.
func FormatFor(p string) (Format, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".toml":
		return TOMLFormat, nil
	case ".json":
		return JSONFormat, nil
	case ".yaml", ".yml":
		return YAMLFormat, nil
	default:
		return "", fmt.Errorf("unsupported artifact extension %q", path.Ext(p))
	}
}

func unmarshal(format Format, data []byte, v any) error {
	switch format {
	case TOMLFormat:
		return toml.Unmarshal(data, v)
	case JSONFormat:
		return json.Unmarshal(data, v)
	case YAMLFormat:
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// DecodeBundle decodes a chart bundle, honoring the unwrap strategy.
func DecodeBundle(p string, data []byte, unwrap UnwrapStrategy) (schema.Bundle, error) {
	format, err := FormatFor(p)
	if err != nil {
		return schema.Bundle{}, err
	}

	var probe map[string]any
	if err := unmarshal(format, data, &probe); err != nil {
		return schema.Bundle{}, err
	}

	var bundle schema.Bundle
	_, wrapped := probe["charts"]
	switch {
	case wrapped || unwrap == WrapperOnly:
		if err := unmarshal(format, data, &bundle); err != nil {
			return schema.Bundle{}, err
		}
	default:
		if _, ok := probe["type"]; !ok {
			return schema.Bundle{}, errBareChart
		}
		var chart schema.ChartConfiguration
		if err := unmarshal(format, data, &chart); err != nil {
			return schema.Bundle{}, err
		}
		bundle.Charts = []schema.ChartConfiguration{chart}
	}
	schema.NormalizeBundle(&bundle)
	return bundle, nil
}

// DecodeMetrics decodes a flat metrics document.
func DecodeMetrics(p string, data []byte) (schema.Metrics, error) {
	format, err := FormatFor(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := unmarshal(format, data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	schema.NormalizeNumbers(m)
	return schema.Metrics(m), nil
}
