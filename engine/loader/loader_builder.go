package loader

import "net/http"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithHTTPClient sets the client used for http(s) sources.
//
// Parameters:
//   - c: the HTTP client
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(c *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTextureDir sets the directory, or URL prefix, gradient textures are loaded from.
//
// Parameters:
//   - dir: a file path or http(s) URL
//
// Returns:
//   - LoaderBuilderOption: a function that applies the directory option to a loader
func WithTextureDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.textureDir = dir
	}
}

// WithExposure sets the exposure multiplier applied before tone mapping HDR images.
func WithExposure(exposure float64) LoaderBuilderOption {
	return func(l *loader) {
		if exposure > 0 {
			l.exposure = exposure
		}
	}
}

// WithMaxTextureSize downscales textures whose width or height exceeds n pixels. Zero disables scaling.
func WithMaxTextureSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxTextureSize = n
	}
}
