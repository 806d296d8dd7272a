package quantize

import (
	"image/color"
)

// Iterations is the number of assignment/update rounds Build runs. There
// is no convergence test, so the cost of a build is bounded by the sample
// count and the palette size.
const Iterations = 5

// Palette is an ordered set of representative colors.
type Palette []RGB

// Build clusters samples into at most n representative colors.
//
// Seeds are picked at an even stride through samples, so the result has n
// entries unless there are fewer than n samples, in which case it has one
// entry per sample. With no samples at all the palette is a single black
// entry. Entries are returned in seed order.
func Build(samples []RGB, n int) Palette {
	if len(samples) == 0 {
		return Palette{{}}
	}
	return Refine(samples, Seed(samples, n), Iterations)
}

// Seed picks the initial centroids for Build. Duplicate samples on the
// stride produce duplicate seeds.
func Seed(samples []RGB, n int) Palette {
	n = max(1, n)
	stride := max(1, len(samples)/n)

	seeds := make(Palette, 0, min(n, len(samples)))
	for i := 0; i < n && i*stride < len(samples); i++ {
		seeds = append(seeds, samples[i*stride])
	}
	return seeds
}

// Refine runs the given number of assignment/update rounds starting from
// seeds. The seeds are not modified. A centroid that attracts no samples in
// a round keeps its previous value.
func Refine(samples []RGB, seeds Palette, iterations int) Palette {
	centroids := make(Palette, len(seeds))
	copy(centroids, seeds)
	if len(centroids) == 0 {
		return centroids
	}

	sums := make([][3]int, len(centroids))
	counts := make([]int, len(centroids))
	for range iterations {
		clear(sums)
		clear(counts)

		for _, s := range samples {
			i := centroids.Index(s)
			sums[i][0] += int(s.R)
			sums[i][1] += int(s.G)
			sums[i][2] += int(s.B)
			counts[i]++
		}

		for i, n := range counts {
			if n == 0 {
				continue
			}
			centroids[i] = RGB{
				R: roundDiv(sums[i][0], n),
				G: roundDiv(sums[i][1], n),
				B: roundDiv(sums[i][2], n),
			}
		}
	}
	return centroids
}

// roundDiv returns sum/n rounded half up.
func roundDiv(sum, n int) uint8 {
	return uint8((2*sum + n) / (2 * n))
}

// Distance is the squared Euclidean distance between a and b in RGB space.
func Distance(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Index returns the index of the entry closest to c, or -1 if the palette
// is empty. Ties go to the lowest index.
func (p Palette) Index(c RGB) int {
	ret, best := -1, 0
	for i, v := range p {
		d := Distance(c, v)
		if ret < 0 || d < best {
			if d == 0 {
				return i
			}
			ret, best = i, d
		}
	}
	return ret
}

// Convert returns the entry closest to c, black if the palette is empty.
func (p Palette) Convert(c RGB) RGB {
	if len(p) == 0 {
		return RGB{}
	}
	return p[p.Index(c)]
}

// ColorPalette returns p as a standard library palette.
func (p Palette) ColorPalette() color.Palette {
	pal := make(color.Palette, len(p))
	for i, c := range p {
		pal[i] = c
	}
	return pal
}
