package pixelate

import (
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelart/imagefile"
	"pixelart/palette"
	"pixelart/parallel"
	"pixelart/quantize"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return img
}

func newCmd(t *testing.T, scan string) *CLICmd {
	t.Helper()
	return &CLICmd{
		Scan:   scan,
		Dest:   "out",
		Block:  4,
		Colors: 8,
		Method: "stride",
		Metric: "rgb",
		Scale:  2,
		Format: "png",
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	c := newCmd(t, dir)
	c.Palette = "gameboy"
	c.Metric = "lab"
	require.NoError(t, c.Validate(nil))

	assert.Equal(t, filepath.Join(dir, "out"), c.Dest)
	assert.Equal(t, 4, c.opts.BlockSize)
	assert.Equal(t, quantize.MetricLab, c.opts.Metric)
	assert.Len(t, c.opts.Palette, 4)
}

func TestValidateErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	for name, mutate := range map[string]func(c *CLICmd){
		"missing scan":  func(c *CLICmd) { c.Scan = filepath.Join(dir, "missing") },
		"scan is file":  func(c *CLICmd) { c.Scan = file },
		"no dimensions": func(c *CLICmd) { c.Resize = true },
		"bad width":     func(c *CLICmd) { c.Resize, c.Width = true, -1 },
		"bad fill":      func(c *CLICmd) { c.Fill = "red" },
		"bad block":     func(c *CLICmd) { c.Block = 0 },
		"bad scale":     func(c *CLICmd) { c.Scale = 0 },
		"bad method":    func(c *CLICmd) { c.Method = "octree" },
		"bad palette":   func(c *CLICmd) { c.Palette = filepath.Join(dir, "missing.pal") },
	} {
		t.Run(name, func(t *testing.T) {
			c := newCmd(t, dir)
			mutate(c)
			assert.Error(t, c.Validate(nil))
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imagefile.Save(gradient(30, 20), "png", dir, "gradient.png"))
	require.NoError(t, imagefile.Save(gradient(8, 8), "bmp", dir, "small.bmp"))

	c := newCmd(t, dir)
	c.SavePalette = true
	require.NoError(t, c.Validate(nil))

	pool := parallel.Start(2)
	require.NoError(t, c.Run(pool.Do, pool.Wait))

	img, imgType, err := imagefile.Open(filepath.Join(dir, "out", "gradient.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", imgType)
	// ceil(30/4)*2 x ceil(20/4)*2
	assert.Equal(t, image.Rect(0, 0, 16, 10), img.Bounds())

	pal, err := palette.Load(filepath.Join(dir, "out", "gradient.pal"))
	require.NoError(t, err)
	assert.Len(t, pal, 8)

	_, _, err = imagefile.Open(filepath.Join(dir, "out", "small.png"))
	assert.NoError(t, err)
}

func TestRunCountsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, imagefile.Save(gradient(8, 8), "png", dir, "ok.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0o644))

	c := newCmd(t, dir)
	require.NoError(t, c.Validate(nil))

	pool := parallel.Start(1)
	err := c.Run(pool.Do, pool.Wait)
	assert.ErrorContains(t, err, "1 of 2 images failed")

	_, err = os.Stat(filepath.Join(dir, "out", "ok.png"))
	assert.NoError(t, err)
}

func TestReport(t *testing.T) {
	rep := &report{}
	assert.NoError(t, rep.err())

	rep.converted.Add(3)
	rep.failed.Add(2)
	assert.EqualError(t, rep.err(), "2 of 5 images failed")
}

func TestResize(t *testing.T) {
	logger := slog.Default()
	src := gradient(40, 20)

	// keep aspect ratio
	out := resize(logger, src, 20, 20, false, nil)
	assert.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())

	// crop to the requested ratio
	out = resize(logger, src, 10, 10, true, nil)
	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())

	// letterbox onto a fill color
	fill := quantize.RGB{R: 255}
	out = resize(logger, src, 20, 20, false, fill)
	require.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
	r, g, b, a := out.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0, 0, 0xFFFF}, []uint32{r, g, b, a})

	// same size is a no-op
	assert.Same(t, src, resize(logger, src, 40, 0, false, nil))
}
