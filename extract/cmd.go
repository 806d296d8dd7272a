// Package extract implements the command that reports the palette of a
// single image.
package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"pixelart/imagefile"
	"pixelart/palette"
	"pixelart/pixelgrid"
	"pixelart/quantize"
)

type CLICmd struct {
	Image  string `arg:"" help:"Image to extract the palette from" type:"existingfile"`
	Block  int    `help:"Downsample by this block size before sampling, as pixelate does" default:"1"`
	Colors int    `help:"Number of palette colors to extract" enum:"4,8,16,32,64,128" default:"16"`
	Method string `help:"Palette extraction method" enum:"stride,kmeans,dominant" default:"stride"`
	Pal    string `help:"Write the palette to this RIFF PAL file" type:"path"`
	Swatch string `help:"Write a PNG swatch of the palette to this file" type:"path"`
	Tile   int    `help:"Swatch tile size" default:"64"`

	method  quantize.Method `kong:"-"`
	writeTo io.Writer       `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Block < 1 {
		return fmt.Errorf("invalid block size: %d", c.Block)
	}

	var err error
	if c.method, err = quantize.ParseMethod(c.Method); err != nil {
		return err
	}
	if c.Swatch != "" && filepath.Ext(c.Swatch) != ".png" {
		return fmt.Errorf("swatch must be a .png file: %q", c.Swatch)
	}
	return nil
}

func (c *CLICmd) Run() error {
	logger := slog.Default().With("file", c.Image)

	img, _, err := imagefile.Open(c.Image)
	if err != nil {
		return err
	}

	small := pixelgrid.Downsample(img, c.Block)
	pal := quantize.Extract(small, c.Colors, c.method)

	samples := quantize.Collect(small)
	mean, stddev := quantize.Distortion(samples, pal)
	logger.Info("extracted palette", "colors", len(pal), "samples", len(samples),
		"method", c.method, "distortion", mean, "stddev", stddev)

	w := c.writeTo
	if w == nil {
		w = os.Stdout
	}
	for _, hex := range palette.Hex(pal) {
		if _, err := fmt.Fprintln(w, hex); err != nil {
			return fmt.Errorf("could not print palette: %w", err)
		}
	}

	if c.Pal != "" {
		if err := palette.Save(c.Pal, pal); err != nil {
			return err
		}
		logger.Info("saved palette", "dest", c.Pal)
	}

	if c.Swatch != "" {
		dir, name := filepath.Split(c.Swatch)
		if dir == "" {
			dir = "."
		}
		if err := imagefile.Save(palette.Swatch(pal, c.Tile), "png", dir, name); err != nil {
			return err
		}
		logger.Info("saved swatch", "dest", c.Swatch)
	}

	return nil
}
