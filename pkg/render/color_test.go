package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}

	tests := []struct {
		name string
		raw  string
		want color.RGBA
	}{
		{"long hex", "#520000", color.RGBA{R: 0x52, A: 0xff}},
		{"short hex", "#abc", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}},
		{"uppercase", "#FCF8E3", color.RGBA{R: 0xfc, G: 0xf8, B: 0xe3, A: 0xff}},
		{"oklch neutralized", "oklch(0.205 0 0)", fallback},
		{"oklab neutralized", "oklab(0.5 0.1 0.1)", fallback},
		{"lab neutralized", "lab(50% 40 59.5)", fallback},
		{"named color neutralized", "rebeccapurple", fallback},
		{"garbage hex", "#zzzzzz", fallback},
		{"short garbage", "#xyz", fallback},
		{"empty", "", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColor(tt.raw, fallback))
		})
	}
}
