package surface

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Colors used when a caller does not pick one.
var (
	DefaultStroke    color.Color = color.Black
	DefaultFill      color.Color = color.NRGBA{A: 0x44}
	DefaultThickness             = 2.0

	gridLineColor  = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	gridLabelColor = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// ParseColor accepts CSS hex colors (#rgb, #rgba, #rrggbb, #rrggbbaa) and
// CSS color names.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("surface: unknown color %q", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return nil, fmt.Errorf("surface: bad hex color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("surface: bad hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustParseColor is ParseColor for constants; it panics on error.
func MustParseColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
