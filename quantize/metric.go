package quantize

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Metric selects how colors are compared when mapping to a palette.
type Metric int

const (
	// MetricRGB compares squared Euclidean distance in RGB space.
	MetricRGB Metric = iota
	// MetricLab compares Euclidean distance in CIE L*a*b*.
	MetricLab
)

func (m Metric) String() string {
	switch m {
	case MetricLab:
		return "lab"
	default:
		return "rgb"
	}
}

func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "rgb":
		return MetricRGB, nil
	case "lab":
		return MetricLab, nil
	}
	return MetricRGB, fmt.Errorf("unknown color metric: %q", s)
}

// Mapper maps colors to palette indices using a fixed metric. It caches
// whatever the metric needs per palette entry, so build one per palette and
// reuse it for every pixel.
type Mapper struct {
	pal    Palette
	metric Metric
	lab    []colorful.Color
}

func NewMapper(p Palette, m Metric) *Mapper {
	mp := &Mapper{pal: p, metric: m}
	if m == MetricLab {
		mp.lab = make([]colorful.Color, len(p))
		for i, c := range p {
			mp.lab[i] = toColorful(c)
		}
	}
	return mp
}

func (mp *Mapper) Palette() Palette {
	return mp.pal
}

// Index returns the palette index closest to c, -1 for an empty palette.
// Ties go to the lowest index for every metric.
func (mp *Mapper) Index(c RGB) int {
	if mp.metric != MetricLab {
		return mp.pal.Index(c)
	}

	cc := toColorful(c)
	ret, best := -1, 0.0
	for i, v := range mp.lab {
		d := cc.DistanceLab(v)
		if ret < 0 || d < best {
			ret, best = i, d
		}
	}
	return ret
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
