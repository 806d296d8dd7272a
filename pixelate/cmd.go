// Package pixelate implements the command that turns a folder of images
// into pixel art.
package pixelate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"

	"pixelart/imagefile"
	"pixelart/palette"
	"pixelart/parallel"
	"pixelart/pixelgrid"
	"pixelart/quantize"
)

type CLICmd struct {
	Scan        string `help:"Source folder to scan" default:"."`
	Dest        string `help:"Destination folder for pixel art. Relative to scan dir if not absolute." default:"pixelated"`
	Resize      bool   `help:"Fit image into the given size before pixelating" default:"false" group:"resize"`
	Width       int    `help:"Max width" group:"resize"`
	Height      int    `help:"Max height" group:"resize"`
	Crop        bool   `help:"Crop image to maintain requested aspect ratio" default:"false" group:"resize"`
	Fill        string `help:"If given and not cropping, will fill background with this #rrggbb color to maintain destination aspect ratio" group:"resize"`
	Block       int    `help:"Side in source pixels of each pixel art cell" default:"8" group:"pixel"`
	Colors      int    `help:"Number of palette colors to extract" enum:"4,8,16,32,64,128" default:"16" group:"pixel"`
	Method      string `help:"Palette extraction method" enum:"stride,kmeans,dominant" default:"stride" group:"pixel"`
	Metric      string `help:"Color distance used to map cells to the palette" enum:"rgb,lab" default:"rgb" group:"pixel"`
	Palette     string `help:"Preset name (bw, gameboy, gray16, pico8) or RIFF PAL file to use instead of extracting a palette" group:"pixel"`
	Scale       int    `help:"Side in output pixels of each exported cell" default:"10" group:"output"`
	Format      string `help:"Output format" enum:"${formats}" default:"png" group:"output"`
	SavePalette bool   `help:"Also write the palette of each image as a RIFF PAL file" default:"false" group:"output"`

	opts      pixelgrid.Options `kong:"-"`
	fillColor color.Color       `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if err := c.resolveFolders(); err != nil {
		return err
	}
	if err := c.checkResize(); err != nil {
		return err
	}
	if c.Block < 1 {
		return fmt.Errorf("invalid block size: %d", c.Block)
	}
	if c.Scale < 1 {
		return fmt.Errorf("invalid scale: %d", c.Scale)
	}

	var err error
	c.opts = pixelgrid.Options{BlockSize: c.Block, Colors: c.Colors}
	if c.opts.Method, err = quantize.ParseMethod(c.Method); err != nil {
		return err
	}
	if c.opts.Metric, err = quantize.ParseMetric(c.Metric); err != nil {
		return err
	}
	if c.Palette != "" {
		if c.opts.Palette, err = palette.Load(c.Palette); err != nil {
			return err
		}
	}
	return nil
}

// resolveFolders makes Scan absolute and Dest absolute relative to Scan.
func (c *CLICmd) resolveFolders() error {
	scan, err := filepath.Abs(c.Scan)
	if err != nil {
		return fmt.Errorf("invalid scan folder %q: %w", c.Scan, err)
	}
	info, err := os.Stat(scan)
	if err != nil {
		return fmt.Errorf("invalid scan folder %q: %w", c.Scan, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan path %q is not a folder", c.Scan)
	}

	c.Scan = scan
	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scan, c.Dest)
	}
	return nil
}

func (c *CLICmd) checkResize() error {
	if c.Resize {
		if c.Width < 0 || c.Height < 0 {
			return fmt.Errorf("invalid resize dimensions: %dx%d", c.Width, c.Height)
		}
		if c.Width == 0 && c.Height == 0 {
			return fmt.Errorf("no resize dimensions given")
		}
	}

	if c.Fill == "" || c.Crop {
		return nil
	}
	fill, err := palette.ParseHex(c.Fill)
	if err != nil {
		return fmt.Errorf("invalid fill color: %w", err)
	}
	c.fillColor = fill
	return nil
}

// report tallies the outcome of a batch across workers.
type report struct {
	converted atomic.Int64
	failed    atomic.Int64
	cells     atomic.Int64
	skipped   int
}

func (r *report) log(logger *slog.Logger, elapsed time.Duration) {
	logger.Info("batch done",
		"converted", r.converted.Load(),
		"failed", r.failed.Load(),
		"skipped", r.skipped,
		"cells", r.cells.Load(),
		"elapsed", elapsed.Round(time.Millisecond))
}

func (r *report) err() error {
	if failed := r.failed.Load(); failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, failed+r.converted.Load())
	}
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	entries, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	start := time.Now()
	rep := &report{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			rep.skipped++
			continue
		}
		worker(func() { c.convert(entry.Name(), rep) })
	}
	wait(true)

	rep.log(slog.Default().With("scan", c.Scan, "dest", c.Dest), time.Since(start))
	return rep.err()
}

// convert pixelates one file of the scan folder and records the outcome.
func (c *CLICmd) convert(fileName string, rep *report) {
	logger := slog.Default().With("file", filepath.Join(c.Scan, fileName))

	grid, err := c.process(logger, fileName)
	if err != nil {
		rep.failed.Add(1)
		logger.Error("could not pixelate image", "error", err)
		return
	}
	rep.converted.Add(1)
	rep.cells.Add(int64(grid.Width() * grid.Height()))
}

func (c *CLICmd) process(logger *slog.Logger, fileName string) (*pixelgrid.Grid, error) {
	img, _, err := imagefile.Open(filepath.Join(c.Scan, fileName))
	if err != nil {
		return nil, err
	}

	if c.Resize {
		img = resize(logger, img, c.Width, c.Height, c.Crop, c.fillColor)
	}

	grid, err := pixelate(logger, img, c.opts)
	if err != nil {
		return nil, err
	}

	destName := imagefile.DestName(fileName, "", c.Format)
	if err := imagefile.Save(grid.Export(c.Scale), c.Format, c.Dest, destName); err != nil {
		return nil, err
	}

	if c.SavePalette {
		palPath := filepath.Join(c.Dest, imagefile.DestName(fileName, "", "pal"))
		if err := palette.Save(palPath, grid.Palette()); err != nil {
			return nil, err
		}
	}

	logger.Info("pixelated", "dest", filepath.Join(c.Dest, destName))
	return grid, nil
}

func pixelate(logger *slog.Logger, img image.Image, opts pixelgrid.Options) (*pixelgrid.Grid, error) {
	grid, err := pixelgrid.New(img, opts)
	if err != nil {
		return nil, err
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		samples := quantize.Collect(pixelgrid.Downsample(img, opts.BlockSize))
		mean, stddev := quantize.Distortion(samples, grid.Palette())
		logger.Debug("palette distortion", "samples", len(samples), "mean", mean, "stddev", stddev)
	}

	logger.Info("pixelating", "width", grid.Width(), "height", grid.Height(),
		"colors", len(grid.Palette()), "method", opts.Method, "metric", opts.Metric)
	return grid, nil
}
