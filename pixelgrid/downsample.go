package pixelgrid

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks img so that every block×block square of source pixels
// becomes one pixel, rounding the size up. Pixels are picked, not blended,
// so the result only holds colors present in img.
func Downsample(img image.Image, block int) *image.NRGBA {
	block = max(1, block)
	sr := img.Bounds()
	dr := image.Rect(0, 0, ceilDiv(sr.Dx(), block), ceilDiv(sr.Dy(), block))

	dest := image.NewNRGBA(dr)
	if dr.Empty() {
		return dest
	}
	draw.NearestNeighbor.Scale(dest, dr, img, sr, draw.Src, nil)
	return dest
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
