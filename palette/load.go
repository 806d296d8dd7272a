// Package palette loads, stores and formats color palettes.
package palette

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"pixelart/imagefile"
	"pixelart/quantize"
)

var presets = map[string]quantize.Palette{
	"bw": {
		{0x00, 0x00, 0x00}, {0xFF, 0xFF, 0xFF},
	},
	"gameboy": {
		{0x0F, 0x38, 0x0F}, {0x30, 0x62, 0x30}, {0x8B, 0xAC, 0x0F}, {0x9B, 0xBC, 0x0F},
	},
	"gray16": gray(16),
	"pico8": {
		{0x00, 0x00, 0x00}, {0x1D, 0x2B, 0x53}, {0x7E, 0x25, 0x53}, {0x00, 0x87, 0x51},
		{0xAB, 0x52, 0x36}, {0x5F, 0x57, 0x4F}, {0xC2, 0xC3, 0xC7}, {0xFF, 0xF1, 0xE8},
		{0xFF, 0x00, 0x4D}, {0xFF, 0xA3, 0x00}, {0xFF, 0xEC, 0x27}, {0x00, 0xE4, 0x36},
		{0x29, 0xAD, 0xFF}, {0x83, 0x76, 0x9C}, {0xFF, 0x77, 0xA8}, {0xFF, 0xCC, 0xAA},
	},
}

func gray(n int) quantize.Palette {
	pal := make(quantize.Palette, n)
	for i := range pal {
		v := uint8(i * 255 / (n - 1))
		pal[i] = quantize.RGB{R: v, G: v, B: v}
	}
	return pal
}

// Presets lists the names accepted by Load besides file paths.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load returns the preset called name, or the palettes of the RIFF PAL file
// at path name concatenated in file order.
func Load(name string) (quantize.Palette, error) {
	if pal, ok := presets[strings.ToLower(name)]; ok {
		return slices.Clone(pal), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close palette file", "name", name, "error", closeErr)
		}
	}()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}

	var pal quantize.Palette
	for _, p := range pals {
		pal = append(pal, p...)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("palette %q has no colors", name)
	}
	return pal, nil
}

// Save writes pal to path as a RIFF PAL file. The file is written under a
// temporary name first and renamed once complete.
func Save(path string, pal quantize.Palette) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary palette file for %q: %w", path, err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmp.Name()); rmErr != nil {
				slog.Error("could not remove temporary palette file", "name", tmp.Name(), "error", rmErr)
			}
		}
	}()

	if _, err = WriteTo(tmp, pal); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not write palette %q: %w", path, err)
	}
	if err = tmp.Chmod(imagefile.FileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not set mode of palette %q: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("could not flush palette %q: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("could not close palette %q: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not rename palette %q: %w", path, err)
	}
	return nil
}
