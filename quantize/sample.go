package quantize

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// OpaqueThreshold is the alpha value a pixel must exceed to be sampled.
const OpaqueThreshold = 128

var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// RGB is an opaque 8 bit color. It is used both as a clustering sample and
// as a palette entry.
type RGB struct {
	R, G, B uint8
}

func (c RGB) RGBA() (uint32, uint32, uint32, uint32) {
	r := uint32(c.R)
	g := uint32(c.G)
	b := uint32(c.B)
	return r | r<<8, g | g<<8, b | b<<8, 0xFFFF
}

// CollectPix returns the color of every pixel in pix whose alpha is above
// OpaqueThreshold, in row-major order. pix holds non-premultiplied RGBA
// values, 4 bytes per pixel.
func CollectPix(pix []uint8, width, height int) ([]RGB, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidBuffer, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrInvalidBuffer, len(pix), width, height)
	}

	samples := make([]RGB, 0, width*height)
	for i := 0; i < len(pix); i += 4 {
		if pix[i+3] > OpaqueThreshold {
			samples = append(samples, RGB{R: pix[i], G: pix[i+1], B: pix[i+2]})
		}
	}
	return samples, nil
}

// Collect samples the opaque pixels of img.
func Collect(img image.Image) []RGB {
	nrgba := ToNRGBA(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()

	// Pix may be a sub-image with a wider stride, so walk it row by row.
	samples := make([]RGB, 0, w*h)
	for y := range h {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		rowSamples, _ := CollectPix(row, w, 1)
		samples = append(samples, rowSamples...)
	}
	return samples
}

// ToNRGBA returns img as a non-premultiplied RGBA image anchored at the
// origin. img is returned as-is when it already is one.
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}

	b := img.Bounds()
	dest := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dest, dest.Rect, img, b.Min, draw.Src)
	return dest
}
