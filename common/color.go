package common

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a CSS-style hex color ("#RGB" or "#RRGGBB", leading '#' optional).
//
// Parameters:
//   - hex: the hex color string
//
// Returns:
//   - colorful.Color: the parsed color with components in [0, 1]
//   - error: error if the string is not a valid hex color
func ParseColor(hex string) (colorful.Color, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

// MustParseColor is ParseColor for compile-time constants. It panics on malformed input.
func MustParseColor(hex string) colorful.Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(fmt.Sprintf("common: %v", err))
	}
	return c
}

// BlendColor interpolates component-wise in sRGB space, matching how the background
// fades between preset colors.
func BlendColor(from, to colorful.Color, t float64) colorful.Color {
	if t >= 1 {
		return to
	}
	return from.BlendRgb(to, Clamp(t, 0, 1))
}
