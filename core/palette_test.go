package core

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaletteColor(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "#d92626"},
		{1, "#d9ac26"},
		{2, "#80d926"},
		{4, "#26d9d9"},
		{8, "#d92626"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PaletteColor(tt.index), "index %d", tt.index)
	}
}

func TestPaletteColorIsDeterministicHex(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	seen := map[string]struct{}{}
	for i := range 8 {
		c := PaletteColor(i)
		assert.Regexp(t, hex, c)
		assert.Equal(t, c, PaletteColor(i))
		seen[c] = struct{}{}
	}
	assert.Len(t, seen, 8, "the first eight series get distinct hues")
}

func TestSeriesColor(t *testing.T) {
	assert.Equal(t, "#abcdef", seriesColor("#abcdef", 3))
	assert.Equal(t, PaletteColor(3), seriesColor("", 3))
}
