package quantize

import (
	"gonum.org/v1/gonum/stat"
)

// Distortion reports how well p represents samples: the mean and standard
// deviation of the squared RGB distance from each sample to its closest
// palette entry. Both are zero when there are no samples or no entries.
func Distortion(samples []RGB, p Palette) (mean, stddev float64) {
	if len(samples) == 0 || len(p) == 0 {
		return 0, 0
	}

	dist := make([]float64, len(samples))
	for i, s := range samples {
		dist[i] = float64(Distance(s, p.Convert(s)))
	}
	if len(dist) == 1 {
		return dist[0], 0
	}
	return stat.MeanStdDev(dist, nil)
}
