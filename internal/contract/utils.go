package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Color variables for console output.
var (
	TitleColor       = color.New(color.FgCyan, color.Bold)
	PlaceholderColor = color.New(color.FgYellow)
	FallbackColor    = color.New(color.FgMagenta)
	MutedColor       = color.New(color.FgHiBlack)
)

// SourceLabel returns a colored label for where a page's charts came from.
func SourceLabel(source string, useColors bool) string {
	if !useColors {
		return source
	}
	switch source {
	case "primary":
		return TitleColor.Sprint(source)
	case "demo":
		return FallbackColor.Sprint(source)
	default:
		return PlaceholderColor.Sprint(source)
	}
}

// Swatch returns a colored block for a hex color, or the hex text when colors are off.
func Swatch(hex string, useColors bool) string {
	if !useColors {
		return hex
	}
	r, g, b, ok := parseHex(hex)
	if !ok {
		return hex
	}
	return color.RGB(r, g, b).Sprint("■■") + " " + hex
}

func parseHex(hex string) (int, int, int, bool) {
	var r, g, b int
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error(msg, zap.Error(err))
	SyncLogger()
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, zap.Error(err))
}

// GetRunDBFilePath returns the path to the SQLite DB file for render-run storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".chartdeck_runs.db"
	}
	return filepath.Join(homeDir, ".chartdeck_runs.db")
}

// TruncateText shortens s to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so that at least one rune of content survives.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
