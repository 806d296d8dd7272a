package pixelgrid

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ExportScale is the default side, in output pixels, of an exported cell.
const ExportScale = 10

// Image renders the grid one pixel per cell. The palette is the grid's
// palette followed by a fully transparent entry used for Transparent cells.
func (g *Grid) Image() *image.Paletted {
	pal := append(g.palette.ColorPalette(), color.NRGBA{})
	clearIdx := uint8(len(pal) - 1)

	img := image.NewPaletted(image.Rect(0, 0, g.width, g.height), pal)
	for i, v := range g.cells {
		if v == Transparent {
			img.Pix[i] = clearIdx
		} else {
			img.Pix[i] = uint8(v)
		}
	}
	return img
}

// Export renders the grid with every cell enlarged to a scale×scale square,
// sharing the palette of Image. A scale below 1 uses ExportScale.
func (g *Grid) Export(scale int) *image.Paletted {
	if scale < 1 {
		scale = ExportScale
	}

	src := g.Image()
	dest := image.NewPaletted(image.Rect(0, 0, g.width*scale, g.height*scale), src.Palette)
	if dest.Rect.Empty() {
		return dest
	}

	draw.NearestNeighbor.Scale(dest, dest.Rect, src, src.Rect, draw.Src, nil)
	return dest
}
