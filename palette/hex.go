package palette

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"pixelart/quantize"
)

// Hex formats every entry of pal as #rrggbb.
func Hex(pal quantize.Palette) []string {
	out := make([]string, len(pal))
	for i, c := range pal {
		cf, _ := colorful.MakeColor(c)
		out[i] = cf.Hex()
	}
	return out
}

// ParseHex reads a #rrggbb color.
func ParseHex(s string) (quantize.RGB, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return quantize.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return quantize.RGB{R: r, G: g, B: b}, nil
}

// Swatch draws pal as a row of tile×tile squares. A tile below 1 uses 64.
func Swatch(pal quantize.Palette, tile int) *image.RGBA {
	if tile < 1 {
		tile = 64
	}

	img := image.NewRGBA(image.Rect(0, 0, tile*len(pal), tile))
	for i, c := range pal {
		r := image.Rect(i*tile, 0, (i+1)*tile, tile)
		draw.Draw(img, r, image.NewUniform(color.Color(c)), image.Point{}, draw.Src)
	}
	return img
}
