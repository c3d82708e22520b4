package label

// DefaultDepth is the z coordinate labels sit at, between the blob and the camera.
const DefaultDepth = 2

// Label is the on-screen name of one preset.
// Position is animated by preset transitions; Opacity is derived from the crossfade progress.
type Label struct {
	// Text is the preset name.
	Text string
	// Position is the label's center in world space.
	Position [3]float32
	// Size is the world-space height of a glyph line.
	Size float32
	// Opacity is 1 for the settled label and fades between 0 and 1 during a crossfade.
	Opacity float32
}

// New creates a centered, hidden label for the given text.
//
// Parameters:
//   - text: the label text
//
// Returns:
//   - *Label: the label
func New(text string) *Label {
	return &Label{
		Text:     text,
		Position: [3]float32{0, 0, DefaultDepth},
		Size:     FontSize(1280),
	}
}

// FontSize returns the world-space glyph height for a viewport width.
// Labels scale with the window so they keep the same share of the screen.
func FontSize(viewportWidth int) float32 {
	if viewportWidth <= 0 {
		return 0
	}
	return float32(viewportWidth) / 6000
}
