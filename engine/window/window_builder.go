package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the base window title. The running preset name is appended to it.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSizeLimits bounds the size the user can drag the window to. A zero or negative value keeps
// the corresponding default, and limits where the minimum exceeds the maximum are ignored.
//
// Parameters:
//   - minWidth, minHeight: smallest window size in pixels
//   - maxWidth, maxHeight: largest window size in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		pick := func(v, def int) int {
			if v > 0 {
				return v
			}
			return def
		}
		minW, minH := pick(minWidth, w.minWidth), pick(minHeight, w.minHeight)
		maxW, maxH := pick(maxWidth, w.maxWidth), pick(maxHeight, w.maxHeight)
		if minW > maxW || minH > maxH {
			return
		}
		w.minWidth, w.minHeight = minW, minH
		w.maxWidth, w.maxHeight = maxW, maxH
	}
}

// WithWidth sets the initial window width. Non-positive values are ignored.
//
// Parameters:
//   - width: initial width in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
	}
}

// WithHeight sets the initial window height. Non-positive values are ignored.
//
// Parameters:
//   - height: initial height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if height > 0 {
			w.height = height
		}
	}
}
