package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-blob/common"

	// Registered image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned when a source is neither a Radiance HDR nor a registered image format.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	client         *http.Client
	textureDir     string
	exposure       float64
	maxTextureSize int

	cache map[string]common.TextureStagingData
}

// Loader fetches and decodes texture assets from local files or HTTP(S) URLs and caches the result.
//
// Sources ending in .hdr or .pic, or whose content starts with a Radiance signature, are decoded as
// RGBE HDR images and tone mapped to 8-bit RGBA. Everything else goes through the registered image
// decoders (PNG, JPEG, GIF, BMP, TIFF, WebP).
type Loader interface {
	// LoadTexture fetches, decodes and caches a texture.
	// If the source is already cached, the cached staging data is returned.
	//
	// Parameters:
	//   - ctx: cancels an in-flight HTTP request
	//   - src: a file path or an http(s) URL
	//
	// Returns:
	//   - common.TextureStagingData: RGBA pixel data
	//   - error: error if fetching or decoding fails
	LoadTexture(ctx context.Context, src string) (common.TextureStagingData, error)

	// LoadGradient loads the named gradient texture from the texture directory.
	//
	// Parameters:
	//   - ctx: cancels an in-flight HTTP request
	//   - name: gradient name without extension
	//
	// Returns:
	//   - common.TextureStagingData: RGBA pixel data
	//   - error: error if fetching or decoding fails
	LoadGradient(ctx context.Context, name string) (common.TextureStagingData, error)

	// Cached returns a previously loaded texture.
	Cached(src string) (common.TextureStagingData, bool)

	// Forget drops a texture from the cache.
	Forget(src string)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the given options applied.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		client:     http.DefaultClient,
		textureDir: "gradient",
		exposure:   1,
		cache:      make(map[string]common.TextureStagingData),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadTexture(ctx context.Context, src string) (common.TextureStagingData, error) {
	if cached, ok := l.Cached(src); ok {
		return cached, nil
	}

	data, err := l.fetch(ctx, src)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to load %s: %w", src, err)
	}

	img, err := l.decode(src, data)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to decode %s: %w", src, err)
	}
	img = l.fit(img)

	staging := common.StagingFromImage(img)
	l.mu.Lock()
	l.cache[src] = staging
	l.mu.Unlock()

	log.Printf("[Loader] loaded %s (%dx%d)", src, staging.Width, staging.Height)
	return staging, nil
}

func (l *loader) LoadGradient(ctx context.Context, name string) (common.TextureStagingData, error) {
	return l.LoadTexture(ctx, l.gradientSource(name))
}

func (l *loader) Cached(src string) (common.TextureStagingData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.cache[src]
	return t, ok
}

func (l *loader) Forget(src string) {
	l.mu.Lock()
	delete(l.cache, src)
	l.mu.Unlock()
}

// gradientSource joins the texture directory and a gradient name. URL directories are joined with '/'.
func (l *loader) gradientSource(name string) string {
	if isRemote(l.textureDir) {
		return strings.TrimRight(l.textureDir, "/") + "/" + name + ".png"
	}
	return filepath.Join(l.textureDir, name+".png")
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// fetch reads the raw bytes of a source.
func (l *loader) fetch(ctx context.Context, src string) ([]byte, error) {
	if !isRemote(src) {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// decode picks the HDR or the registered image decoder based on extension and content.
func (l *loader) decode(src string, data []byte) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(strings.SplitN(src, "?", 2)[0]))
	if ext == ".hdr" || ext == ".pic" || isRadiance(data) {
		img, err := DecodeRadiance(data)
		if err != nil {
			return nil, err
		}
		return ToneMap(img, l.exposure), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, ErrUnsupportedFormat
	}
	return img, err
}

// fit downscales img so neither side exceeds the configured maximum.
func (l *loader) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if l.maxTextureSize <= 0 || (w <= l.maxTextureSize && h <= l.maxTextureSize) {
		return img
	}

	scale := float64(l.maxTextureSize) / float64(max(w, h))
	nw, nh := max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
