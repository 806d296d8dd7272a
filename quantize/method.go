package quantize

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects the palette extraction algorithm.
type Method int

const (
	// MethodStride is Build: stride seeding and a fixed number of rounds.
	MethodStride Method = iota
	// MethodKMeans runs k-means to convergence from random seeds.
	MethodKMeans
	// MethodDominant picks the most dominant colors of the image.
	MethodDominant
)

// maxKMeansSamples bounds the dataset handed to k-means.
const maxKMeansSamples = 12000

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodDominant:
		return "dominant"
	default:
		return "stride"
	}
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "stride":
		return MethodStride, nil
	case "kmeans":
		return MethodKMeans, nil
	case "dominant":
		return MethodDominant, nil
	}
	return MethodStride, fmt.Errorf("unknown palette method: %q", s)
}

// Extract builds a palette of at most n colors from the opaque pixels of
// img. Whatever the method, an image without opaque pixels yields a single
// black entry, and a method that comes back empty falls back to Build.
func Extract(img image.Image, n int, m Method) Palette {
	n = max(1, n)
	samples := Collect(img)
	if len(samples) == 0 {
		return Palette{{}}
	}

	var p Palette
	switch m {
	case MethodKMeans:
		p = extractKMeans(samples, n)
	case MethodDominant:
		p = extractDominant(img, n)
	default:
		return Build(samples, n)
	}

	if len(p) == 0 {
		slog.Warn("palette method returned no colors, falling back", "method", m, "fallback", MethodStride)
		return Build(samples, n)
	}
	return p
}

func extractKMeans(samples []RGB, n int) Palette {
	step := 1
	if len(samples) > maxKMeansSamples {
		step = int(math.Ceil(float64(len(samples)) / maxKMeansSamples))
	}

	dataset := make(clusters.Observations, 0, len(samples)/step+1)
	for i := 0; i < len(samples); i += step {
		s := samples[i]
		dataset = append(dataset, clusters.Coordinates{float64(s.R), float64(s.G), float64(s.B)})
	}

	k := min(n, len(dataset))
	cc, err := kmeans.New().Partition(dataset, k)
	if err != nil {
		slog.Warn("kmeans partition failed", "k", k, "samples", len(dataset), "error", err)
		return nil
	}

	// Most populated clusters first.
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	p := make(Palette, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		p = append(p, RGB{
			R: clampChannel(c.Center[0]),
			G: clampChannel(c.Center[1]),
			B: clampChannel(c.Center[2]),
		})
	}
	return p
}

func extractDominant(img image.Image, n int) Palette {
	found := dominantcolor.FindWeight(opaqueMask(img), n)

	p := make(Palette, 0, min(n, len(found)))
	for _, c := range found {
		if len(p) == n {
			break
		}
		p = append(p, RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B})
	}
	return p
}

// opaqueMask copies img keeping only the pixels Collect samples, made fully
// opaque. Everything else gets alpha 0, the only alpha dominantcolor skips.
func opaqueMask(img image.Image) *image.NRGBA {
	src := ToNRGBA(img)
	dst := image.NewNRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	for y := range src.Rect.Dy() {
		srow := src.Pix[y*src.Stride:]
		drow := dst.Pix[y*dst.Stride:]
		for x := range src.Rect.Dx() {
			px := srow[x*4 : x*4+4]
			if px[3] <= OpaqueThreshold {
				continue
			}
			copy(drow[x*4:x*4+3], px[:3])
			drow[x*4+3] = 0xFF
		}
	}
	return dst
}

func clampChannel(v float64) uint8 {
	return uint8(max(0, min(255, math.Round(v))))
}
