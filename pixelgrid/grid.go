// Package pixelgrid turns images into editable, palette-quantized pixel
// grids.
package pixelgrid

import (
	"errors"
	"fmt"
	"image"

	"pixelart/quantize"
)

// Transparent marks a cell that holds no palette color.
const Transparent = -1

// transparentBelow is the alpha under which a downsampled cell is left
// transparent. Cells at exactly this alpha are not sampled for the palette
// but are still mapped to it.
const transparentBelow = 128

// maxPaletteSize leaves room for the transparent entry of Image.
const maxPaletteSize = 255

var (
	ErrInvalidOptions = errors.New("invalid grid options")
	ErrOutOfRange     = errors.New("out of range")
)

type Options struct {
	// BlockSize is the side, in source pixels, of the square each cell
	// covers.
	BlockSize int
	// Colors is the palette size to extract. Ignored when Palette is set.
	Colors    int
	Method    quantize.Method
	Metric    quantize.Metric
	// Palette, if not nil, is used as is instead of extracting one.
	Palette   quantize.Palette
}

func (o Options) validate() error {
	switch {
	case o.BlockSize < 1:
		return fmt.Errorf("%w: block size %d", ErrInvalidOptions, o.BlockSize)
	case o.Palette == nil && o.Colors < 1:
		return fmt.Errorf("%w: color count %d", ErrInvalidOptions, o.Colors)
	case o.Palette != nil && len(o.Palette) == 0:
		return fmt.Errorf("%w: empty palette", ErrInvalidOptions)
	case len(o.Palette) > maxPaletteSize || o.Colors > maxPaletteSize:
		return fmt.Errorf("%w: more than %d colors", ErrInvalidOptions, maxPaletteSize)
	}
	return nil
}

// Grid is a downsampled image whose cells reference palette entries.
type Grid struct {
	width, height int
	palette       quantize.Palette
	cells         []int

	history [][]int
	current int
}

// New downsamples img, builds a palette from it unless opts carries one, and
// maps every cell to its closest palette entry.
func New(img image.Image, opts Options) (*Grid, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	small := Downsample(img, opts.BlockSize)
	pal := opts.Palette
	if pal == nil {
		pal = quantize.Extract(small, opts.Colors, opts.Method)
	}

	return FromImage(small, pal, opts.Metric)
}

// FromImage maps img one pixel per cell onto pal without downsampling. pal
// must hold between 1 and 255 entries so Image has room for Transparent.
func FromImage(img image.Image, pal quantize.Palette, metric quantize.Metric) (*Grid, error) {
	switch {
	case len(pal) == 0:
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidOptions)
	case len(pal) > maxPaletteSize:
		return nil, fmt.Errorf("%w: %d colors, at most %d", ErrInvalidOptions, len(pal), maxPaletteSize)
	}

	src := quantize.ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	g := &Grid{
		width:   w,
		height:  h,
		palette: pal,
		cells:   make([]int, w*h),
	}

	mapper := quantize.NewMapper(pal, metric)
	for y := range h {
		row := src.Pix[y*src.Stride:]
		for x := range w {
			px := row[x*4 : x*4+4]
			if px[3] < transparentBelow {
				g.cells[y*w+x] = Transparent
				continue
			}
			g.cells[y*w+x] = mapper.Index(quantize.RGB{R: px[0], G: px[1], B: px[2]})
		}
	}

	g.history = [][]int{g.snapshot()}
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Palette returns the grid's palette. It must not be modified.
func (g *Grid) Palette() quantize.Palette { return g.palette }

// At returns the palette index of the cell at (x, y), or Transparent.
// Coordinates outside the grid are Transparent.
func (g *Grid) At(x, y int) int {
	if !g.inside(x, y) {
		return Transparent
	}
	return g.cells[y*g.width+x]
}

// Color returns the color of the cell at (x, y) and whether it is opaque.
func (g *Grid) Color(x, y int) (quantize.RGB, bool) {
	i := g.At(x, y)
	if i == Transparent {
		return quantize.RGB{}, false
	}
	return g.palette[i], true
}

// Paint sets the cell at (x, y) to palette entry idx.
func (g *Grid) Paint(x, y, idx int) error {
	if idx < 0 || idx >= len(g.palette) {
		return fmt.Errorf("%w: palette index %d of %d", ErrOutOfRange, idx, len(g.palette))
	}
	return g.set(x, y, idx)
}

// Erase makes the cell at (x, y) transparent.
func (g *Grid) Erase(x, y int) error {
	return g.set(x, y, Transparent)
}

func (g *Grid) set(x, y, v int) error {
	if !g.inside(x, y) {
		return fmt.Errorf("%w: cell (%d,%d) of %dx%d", ErrOutOfRange, x, y, g.width, g.height)
	}
	g.cells[y*g.width+x] = v
	return nil
}

func (g *Grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) snapshot() []int {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return cells
}
