package pixelate

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// resize fits img into width×height, either of which may be 0 to keep the
// source size on that axis. With crop the source is trimmed to the
// destination aspect ratio; otherwise the image keeps its aspect ratio and,
// if fillColor is set, is centered on a background of that color.
func resize(logger *slog.Logger, img image.Image, width, height int, crop bool, fillColor color.Color) image.Image {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())
	if srcWidth == 0 || srcHeight == 0 {
		return img
	}

	destWidth := float64(width)
	if destWidth == 0 {
		destWidth = srcWidth
	}
	destHeight := float64(height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	if srcWidth == destWidth && srcHeight == destHeight {
		return img
	}

	destSize := image.Rect(0, 0, int(destWidth), int(destHeight))
	destBounds := destSize

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	switch {
	case crop && srcAR < destAR:
		dh := int(math.Round((srcHeight - srcWidth/destAR) / 2))
		srcBounds.Min.Y += dh
		srcBounds.Max.Y -= dh
	case crop && srcAR > destAR:
		dw := int(math.Round((srcWidth - srcHeight*destAR) / 2))
		srcBounds.Min.X += dw
		srcBounds.Max.X -= dw
	case !crop && srcAR < destAR:
		dw := destHeight * srcAR
		if fillColor == nil {
			destSize.Max.X = int(math.Round(dw))
			destBounds.Max.X = destSize.Max.X
		} else {
			pad := int(math.Round((destWidth - dw) / 2))
			destBounds.Min.X += pad
			destBounds.Max.X -= pad
		}
	case !crop && srcAR > destAR:
		dh := destWidth / srcAR
		if fillColor == nil {
			destSize.Max.Y = int(math.Round(dh))
			destBounds.Max.Y = destSize.Max.Y
		} else {
			pad := int(math.Round((destHeight - dh) / 2))
			destBounds.Min.Y += pad
			destBounds.Max.Y -= pad
		}
	}

	logger.Info("resizing", "width", destBounds.Dx(), "height", destBounds.Dy())
	dest := image.NewNRGBA(destSize)
	if fillColor != nil {
		draw.Draw(dest, destSize, image.NewUniform(fillColor), image.Point{}, draw.Src)
	}
	// Nearest neighbour keeps hard pixel edges and never invents colors.
	draw.NearestNeighbor.Scale(dest, destBounds, img, srcBounds, draw.Over, nil)

	return dest
}
