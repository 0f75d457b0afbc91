package outwriter

import (
	"os"

	"github.com/chartdeck/chartdeck/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the --width override, the detected terminal width, or 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80
	}
	return detected
}

// GetMaxCellWidth spreads the terminal width over columns for text tables.
func GetMaxCellWidth(cfg *contract.Config, columns int) int {
	if columns < 1 {
		columns = 1
	}
	// three characters of border and padding per column
	available := (terminalWidth(cfg) - 1) / columns
	available -= 3
	if available < 8 {
		return 8
	}
	if available > 48 {
		return 48
	}
	return available
}

// truncateRow shortens every cell of row to width.
func truncateRow(row []string, width int) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = contract.TruncateText(cell, width)
	}
	return out
}
