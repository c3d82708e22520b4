package label

import (
	"errors"
	"image"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrEmptyText is returned when rasterizing a label with no text.
var ErrEmptyText = errors.New("label text is empty")

// rasterConfig holds the glyph rendering parameters for Rasterize.
type rasterConfig struct {
	face          font.Face
	scale         int
	padding       int
	letterSpacing fixed.Int26_6
}

// Rasterize renders text as white glyphs on a transparent background.
// The result is uploaded as the label's texture; its aspect ratio sizes the label quad.
//
// Parameters:
//   - text: the label text
//   - options: a variadic list of RasterOption functions
//
// Returns:
//   - common.TextureStagingData: premultiplied RGBA pixels
//   - error: ErrEmptyText if text is empty
func Rasterize(text string, options ...RasterOption) (common.TextureStagingData, error) {
	if text == "" {
		return common.TextureStagingData{}, ErrEmptyText
	}

	cfg := &rasterConfig{
		face:    basicfont.Face7x13,
		scale:   4,
		padding: 2,
	}
	for _, opt := range options {
		opt(cfg)
	}

	metrics := cfg.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()

	width := measure(cfg.face, text, cfg.letterSpacing).Ceil()
	src := image.NewRGBA(image.Rect(0, 0, max(width, 1)+2*cfg.padding, lineHeight+2*cfg.padding))

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: cfg.face,
		Dot:  fixed.Point26_6{X: fixed.I(cfg.padding), Y: fixed.I(cfg.padding + ascent)},
	}
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			d.Dot.X += cfg.face.Kern(prev, r) + cfg.letterSpacing
		}
		d.DrawString(string(r))
		prev = r
	}

	if cfg.scale <= 1 {
		return common.StagingFromImage(src), nil
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*cfg.scale, b.Dy()*cfg.scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return common.StagingFromImage(dst), nil
}

func measure(face font.Face, text string, spacing fixed.Int26_6) fixed.Int26_6 {
	var width fixed.Int26_6
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			width += face.Kern(prev, r) + spacing
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv, _ = face.GlyphAdvance('?')
		}
		width += adv
		prev = r
	}
	return width
}
