package render

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseColor parses a template color string into an RGBA value. Only simple
// hex notations (#rgb, #rrggbb) are understood; anything else, including
// modern wide-gamut color functions such as oklch()/oklab()/lab(), is
// neutralized to the provided fallback so a single exotic color never aborts
// a render.
func ParseColor(raw string, fallback color.RGBA) color.RGBA {
	s := strings.TrimSpace(strings.ToLower(raw))
	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	s = s[1:]

	switch len(s) {
	case 3:
		r, okR := hexNibble(s[0])
		g, okG := hexNibble(s[1])
		b, okB := hexNibble(s[2])
		if !okR || !okG || !okB {
			return fallback
		}
		return color.RGBA{R: r * 17, G: g * 17, B: b * 17, A: 0xff}
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return fallback
		}
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 0xff,
		}
	default:
		return fallback
	}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
