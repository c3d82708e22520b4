package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

// MaxRadiancePixels bounds the pixel count of a Radiance image accepted by DecodeRadiance.
const MaxRadiancePixels = 1 << 26

var (
	// ErrInvalidRadiance is returned for malformed Radiance HDR data.
	ErrInvalidRadiance = errors.New("invalid radiance hdr")

	radianceSignatures = [][]byte{[]byte("#?RADIANCE"), []byte("#?RGBE")}
)

func isRadiance(data []byte) bool {
	for _, sig := range radianceSignatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// DecodeRadiance reads a Radiance RGBE image. The header is checked before any pixel memory is
// allocated: only the RGBE format, the standard "-Y h +X w" orientation and images of at most
// MaxRadiancePixels pixels are accepted.
//
// Parameters:
//   - data: the complete .hdr file
//
// Returns:
//   - hdr.Image: the decoded image with linear float samples
//   - error: ErrInvalidRadiance or ErrUnsupportedFormat wrapped with detail on rejected input
func DecodeRadiance(data []byte) (hdr.Image, error) {
	if _, _, err := readRadianceHeader(bufio.NewReader(bytes.NewReader(data))); err != nil {
		return nil, err
	}

	img, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadiance, err)
	}
	h, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%w: decoder returned %T", ErrInvalidRadiance, img)
	}
	return h, nil
}

// ToneMap converts an HDR image to 8-bit sRGB using the Reinhard operator.
//
// Parameters:
//   - img: the linear HDR image
//   - exposure: multiplier applied to linear values before tone mapping
//
// Returns:
//   - *image.RGBA: the tone mapped image, fully opaque
func ToneMap(img hdr.Image, exposure float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	reinhard := func(v float64) float64 {
		x := max(v*exposure, 0)
		return x / (1 + x)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			lr, lg, lb, _ := img.HDRAt(x, y).HDRRGBA()
			cr, cg, cb := colorful.LinearRgb(reinhard(lr), reinhard(lg), reinhard(lb)).Clamped().RGB255()
			o := out.PixOffset(x-b.Min.X, y-b.Min.Y)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = cr, cg, cb, 255
		}
	}
	return out
}

// readRadianceHeader validates the signature, format and resolution lines.
func readRadianceHeader(br *bufio.Reader) (int, int, error) {
	first, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidRadiance, err)
	}
	if !isRadiance([]byte(first)) {
		return 0, 0, fmt.Errorf("%w: missing signature", ErrInvalidRadiance)
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return 0, 0, fmt.Errorf("%w: unterminated header", ErrInvalidRadiance)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if format, ok := strings.CutPrefix(line, "FORMAT="); ok && format != "32-bit_rle_rgbe" {
			return 0, 0, fmt.Errorf("%w: format %s", ErrUnsupportedFormat, format)
		}
	}

	res, err := br.ReadString('\n')
	if err != nil {
		return 0, 0, fmt.Errorf("%w: missing resolution", ErrInvalidRadiance)
	}
	fields := strings.Fields(res)
	if len(fields) != 4 || fields[0] != "-Y" || fields[2] != "+X" {
		return 0, 0, fmt.Errorf("%w: unsupported resolution line %q", ErrInvalidRadiance, strings.TrimSpace(res))
	}
	height, errH := strconv.Atoi(fields[1])
	width, errW := strconv.Atoi(fields[3])
	if errH != nil || errW != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: bad dimensions %q", ErrInvalidRadiance, strings.TrimSpace(res))
	}
	if width > MaxRadiancePixels/height {
		return 0, 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidRadiance, width, height, MaxRadiancePixels)
	}
	return width, height, nil
}
