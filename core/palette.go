package core

import (
	"fmt"
	"math"
)

// Palette parameters for series without an explicit color.
const (
	paletteHueStep    = 45
	paletteSaturation = 0.70
	paletteLightness  = 0.50
)

// PaletteColor returns the default color of the series at index as a hex string.
// Hue is index*45 mod 360 at 70% saturation and 50% lightness, so it repeats every 8 series.
func PaletteColor(index int) string {
	hue := math.Mod(float64(index*paletteHueStep), 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := hslToRGB(hue, paletteSaturation, paletteLightness)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// seriesColor picks the configured color or falls back to the palette.
func seriesColor(configured string, index int) string {
	if configured != "" {
		return configured
	}
	return PaletteColor(index)
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return toByte(r + m), toByte(g + m), toByte(b + m)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
