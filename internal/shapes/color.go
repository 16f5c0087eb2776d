package shapes

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"gray":    "#808080",
	"grey":    "#808080",
	"brown":   "#a52a2a",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"navy":    "#000080",
	"teal":    "#008080",
	"lime":    "#00ff00",
	"maroon":  "#800000",
	"olive":   "#808000",
	"silver":  "#c0c0c0",
	"gold":    "#ffd700",
	"indigo":  "#4b0082",
	"violet":  "#ee82ee",
	"coral":   "#ff7f50",
	"salmon":  "#fa8072",
	"skyblue": "#87ceeb",

	"lightblue":   "#add8e6",
	"lightgreen":  "#90ee90",
	"lightgray":   "#d3d3d3",
	"lightgrey":   "#d3d3d3",
	"lightyellow": "#ffffe0",
	"darkblue":    "#00008b",
	"darkgreen":   "#006400",
	"darkgray":    "#a9a9a9",
	"darkgrey":    "#a9a9a9",
	"darkred":     "#8b0000",
}

// ParseColor understands #rgb, #rrggbb, #rrggbbaa, the common CSS color
// names and "transparent".
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return color.RGBA{}, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}

	alpha := uint8(0xff)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return premultiply(color.RGBA{R: r, G: g, B: b, A: alpha}), nil
}

// ColorOr parses s and falls back to def when s is empty or invalid.
func ColorOr(s string, def color.RGBA) color.RGBA {
	if s == "" {
		return def
	}
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// MustColor parses a known-good literal.
func MustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func premultiply(c color.RGBA) color.RGBA {
	if c.A == 0xff {
		return c
	}
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 0xff),
		G: uint8(uint16(c.G) * a / 0xff),
		B: uint8(uint16(c.B) * a / 0xff),
		A: c.A,
	}
}
