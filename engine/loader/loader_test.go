package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/mdouchement/hdr"
)

func radianceHeader(w, h int) []byte {
	return []byte(fmt.Sprintf("#?RADIANCE\n# test\nFORMAT=32-bit_rle_rgbe\nEXPOSURE=1.0\n\n-Y %d +X %d\n", h, w))
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func checkPixel(t *testing.T, img hdr.Image, x, y int, want [3]float64) {
	t.Helper()
	r, g, b, _ := img.HDRAt(x, y).HDRRGBA()
	got := [3]float64{r, g, b}
	for i := range got {
		// RGBE keeps 8 bits of mantissa; allow for decoders that center the quantization step.
		if math.Abs(got[i]-want[i]) > want[i]*0.01+1e-6 {
			t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
		}
	}
}

func TestDecodeRadianceFlat(t *testing.T) {
	data := append(radianceHeader(2, 1), 128, 64, 32, 129, 0, 0, 0, 0)
	img, err := DecodeRadiance(data)
	if err != nil {
		t.Fatalf("DecodeRadiance: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Fatalf("size = %dx%d", b.Dx(), b.Dy())
	}
	checkPixel(t, img, 0, 0, [3]float64{1, 0.5, 0.25})
	checkPixel(t, img, 1, 0, [3]float64{0, 0, 0})
}

func TestDecodeRadianceAdaptiveRLE(t *testing.T) {
	data := radianceHeader(8, 2)
	for row := 0; row < 2; row++ {
		data = append(data, 2, 2, 0, 8)
		data = append(data, 128+8, 128)           // R: run
		data = append(data, 4, 64, 64, 64, 64)    // G: literal
		data = append(data, 128+4, 64)            // G: run
		data = append(data, 2, 32, 32, 128+6, 32) // B: literal then run
		data = append(data, 128+8, byte(129+row)) // E: run
	}
	img, err := DecodeRadiance(data)
	if err != nil {
		t.Fatalf("DecodeRadiance: %v", err)
	}
	for x := 0; x < 8; x++ {
		checkPixel(t, img, x, 0, [3]float64{1, 0.5, 0.25})
		checkPixel(t, img, x, 1, [3]float64{2, 1, 0.5})
	}
}

func TestDecodeRadianceErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "no signature", data: []byte("P6\n1 1\n"), want: ErrInvalidRadiance},
		{name: "xyze", data: []byte("#?RADIANCE\nFORMAT=32-bit_rle_xyze\n\n-Y 1 +X 1\n\x80\x80\x80\x80"), want: ErrUnsupportedFormat},
		{name: "flipped", data: []byte("#?RADIANCE\n\n+Y 1 +X 1\n\x80\x80\x80\x80"), want: ErrInvalidRadiance},
		{name: "zero height", data: []byte("#?RADIANCE\n\n-Y 0 +X 4\n"), want: ErrInvalidRadiance},
		{name: "truncated", data: append(radianceHeader(2, 2), 1, 2, 3, 4), want: ErrInvalidRadiance},
		{name: "huge", data: []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1000000000 +X 1000000000\n"), want: ErrInvalidRadiance},
		{name: "just over limit", data: []byte(fmt.Sprintf("#?RADIANCE\n\n-Y %d +X 2\n", MaxRadiancePixels/2+1)), want: ErrInvalidRadiance},
		{name: "overflowing product", data: []byte("#?RADIANCE\n\n-Y 4294967296 +X 4294967296\n"), want: ErrInvalidRadiance},
	}
	for _, tt := range tests {
		if _, err := DecodeRadiance(tt.data); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestLoadTextureOversizedRadiance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.hdr")
	if err := os.WriteFile(path, []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 1000000000 +X 1000000000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader()
	if _, err := l.LoadTexture(context.Background(), path); !errors.Is(err, ErrInvalidRadiance) {
		t.Fatalf("err = %v, want ErrInvalidRadiance", err)
	}
	if _, ok := l.Cached(path); ok {
		t.Fatal("rejected image was cached")
	}
}

func TestToneMap(t *testing.T) {
	img, err := DecodeRadiance(append(radianceHeader(2, 1), 128, 64, 32, 129, 0, 0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	out := ToneMap(img, 1)
	px := out.RGBAAt(0, 0)
	if !(px.R > px.G && px.G > px.B) || px.A != 255 {
		t.Fatalf("tone mapped pixel = %v", px)
	}
	if px.R == 255 {
		t.Fatalf("reinhard should compress 1.0 below white: %v", px)
	}
	if black := out.RGBAAt(1, 0); black != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("zero pixel = %v", black)
	}
	if brighter := ToneMap(img, 4).RGBAAt(0, 0); brighter.R <= px.R {
		t.Fatalf("exposure had no effect: %v vs %v", brighter, px)
	}
}

func TestLoadTextureHTTP(t *testing.T) {
	var hits atomic.Int32
	gradient := pngBytes(t, 4, 2, color.RGBA{200, 100, 50, 255})
	hdr := append(radianceHeader(2, 1), 128, 64, 32, 129, 128, 64, 32, 129)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/gradient/cosmic-fusion.png":
			w.Write(gradient)
		case "/studio.hdr":
			w.Write(hdr)
		case "/notes.txt":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(WithHTTPClient(srv.Client()), WithTextureDir(srv.URL+"/gradient/"))
	ctx := context.Background()

	tex, err := l.LoadGradient(ctx, "cosmic-fusion")
	if err != nil {
		t.Fatalf("LoadGradient: %v", err)
	}
	if tex.Width != 4 || tex.Height != 2 || tex.Empty() {
		t.Fatalf("gradient = %dx%d", tex.Width, tex.Height)
	}
	if got := tex.Pixels[:4]; !bytes.Equal(got, []byte{200, 100, 50, 255}) {
		t.Fatalf("first pixel = %v", got)
	}

	env, err := l.LoadTexture(ctx, srv.URL+"/studio.hdr")
	if err != nil {
		t.Fatalf("LoadTexture(hdr): %v", err)
	}
	if env.Width != 2 || env.Height != 1 || env.Pixels[3] != 255 {
		t.Fatalf("hdr = %dx%d %v", env.Width, env.Height, env.Pixels)
	}

	before := hits.Load()
	if _, err := l.LoadGradient(ctx, "cosmic-fusion"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != before {
		t.Fatal("cached texture fetched again")
	}

	if _, err := l.LoadTexture(ctx, srv.URL+"/missing.png"); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := l.LoadTexture(ctx, srv.URL+"/notes.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadTextureCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoader(WithHTTPClient(srv.Client()))
	if _, err := l.LoadTexture(ctx, srv.URL+"/slow.png"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, ok := l.Cached(srv.URL + "/slow.png"); ok {
		t.Fatal("failed load was cached")
	}
}

func TestLoadTextureFileAndScaling(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "wide.png"), pngBytes(t, 64, 32, color.RGBA{0, 255, 0, 255}), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(WithTextureDir(dir), WithMaxTextureSize(16))
	tex, err := l.LoadGradient(context.Background(), "wide")
	if err != nil {
		t.Fatalf("LoadGradient: %v", err)
	}
	if tex.Width != 16 || tex.Height != 8 {
		t.Fatalf("scaled size = %dx%d, want 16x8", tex.Width, tex.Height)
	}
	if len(tex.Pixels) != 16*8*4 {
		t.Fatalf("pixel buffer = %d bytes", len(tex.Pixels))
	}

	src := filepath.Join(dir, "wide.png")
	if _, ok := l.Cached(src); !ok {
		t.Fatal("texture not cached by source")
	}
	l.Forget(src)
	if _, ok := l.Cached(src); ok {
		t.Fatal("Forget left texture cached")
	}

	if _, err := l.LoadTexture(context.Background(), filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}
