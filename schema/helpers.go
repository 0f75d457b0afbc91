package schema

import (
	"fmt"
	"strconv"
	"strings"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

// FormatNumber renders a float with the shortest decimal representation,
// so 30000 stays "30000" and 12.5 stays "12.5".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatValue renders any decoded scalar for display.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := ToFloat(v); ok {
		return FormatNumber(f)
	}
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeNumbers walks a decoded document and turns every integer into float64.
// Decoders disagree on integer types (go-toml yields int64, yaml.v3 yields int).
func NormalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = NormalizeNumbers(inner)
		}
		return t
	case Row:
		for k, inner := range t {
			t[k] = NormalizeNumbers(inner)
		}
		return t
	case Metrics:
		for k, inner := range t {
			t[k] = NormalizeNumbers(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = NormalizeNumbers(inner)
		}
		return t
	case []map[string]any:
		for i, inner := range t {
			t[i] = NormalizeNumbers(inner).(map[string]any)
		}
		return t
	case float64, string, bool, nil:
		return t
	default:
		if f, ok := ToFloat(t); ok {
			return f
		}
		return t
	}
}

// NormalizeBundle normalizes the numeric values in every chart's rows.
func NormalizeBundle(b *Bundle) {
	for i := range b.Charts {
		for j := range b.Charts[i].Data {
			NormalizeNumbers(b.Charts[i].Data[j])
		}
	}
}

// HumanizeKey turns "brand_distribution" into "Brand Distribution".
func HumanizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
