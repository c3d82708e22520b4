package label

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// RasterOption is a functional option for configuring Rasterize.
type RasterOption func(*rasterConfig)

// WithFace sets the font face glyphs are drawn with.
//
// Parameters:
//   - face: the font face
//
// Returns:
//   - RasterOption: a function that applies the face option
func WithFace(face font.Face) RasterOption {
	return func(c *rasterConfig) {
		if face != nil {
			c.face = face
		}
	}
}

// WithScale sets the integer upscale factor applied after drawing.
// Bitmap faces stay crisp because scaling uses nearest-neighbour sampling.
//
// Parameters:
//   - scale: the upscale factor, values below 1 disable scaling
//
// Returns:
//   - RasterOption: a function that applies the scale option
func WithScale(scale int) RasterOption {
	return func(c *rasterConfig) {
		c.scale = scale
	}
}

// WithPadding sets the transparent border around the text, in unscaled pixels.
func WithPadding(padding int) RasterOption {
	return func(c *rasterConfig) {
		c.padding = max(padding, 0)
	}
}

// WithLetterSpacing adds spacing between glyphs, in unscaled pixels. Negative values tighten the text.
func WithLetterSpacing(px float64) RasterOption {
	return func(c *rasterConfig) {
		c.letterSpacing = fixed.Int26_6(px * 64)
	}
}
