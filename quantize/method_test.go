package quantize

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoToneImage is half red, half blue, with a transparent border column.
func twoToneImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 21, 20))
	for y := range 20 {
		for x := range 20 {
			c := color.NRGBA{255, 0, 0, 255}
			if x >= 10 {
				c = color.NRGBA{0, 0, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestParseMethod(t *testing.T) {
	for _, m := range []Method{MethodStride, MethodKMeans, MethodDominant} {
		parsed, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodStride, m)

	_, err = ParseMethod("median-cut")
	assert.Error(t, err)
}

func TestExtractStrideMatchesBuild(t *testing.T) {
	img := twoToneImage()
	assert.Equal(t, Build(Collect(img), 4), Extract(img, 4, MethodStride))
}

func TestExtractTransparentIsBlack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for _, m := range []Method{MethodStride, MethodKMeans, MethodDominant} {
		assert.Equal(t, Palette{black}, Extract(img, 8, m), m.String())
	}
}

func TestExtractKMeans(t *testing.T) {
	p := Extract(twoToneImage(), 2, MethodKMeans)
	assert.NotEmpty(t, p)
	assert.LessOrEqual(t, len(p), 2)
	for _, c := range p {
		assert.Zero(t, c.G, "only red and blue are present, got %v", c)
	}
}

func TestExtractKMeansFewSamples(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{10, 10, 10, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 200, 200, 255})

	p := Extract(img, 16, MethodKMeans)
	assert.LessOrEqual(t, len(p), 2)
	assert.NotEmpty(t, p)
}

func TestExtractDominant(t *testing.T) {
	p := Extract(twoToneImage(), 4, MethodDominant)
	assert.NotEmpty(t, p)
	assert.LessOrEqual(t, len(p), 4)
}

func TestExtractDominantIgnoresTranslucent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range 100 {
		c := color.NRGBA{255, 0, 0, 100}
		if i < 10 {
			c = color.NRGBA{0, 0, 255, 255}
		}
		img.SetNRGBA(i%10, i/10, c)
	}

	want := Palette{{0, 0, 255}}
	assert.Equal(t, want, Extract(img, 1, MethodStride))
	assert.Equal(t, want, Extract(img, 1, MethodDominant))
}

func TestOpaqueMask(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, OpaqueThreshold})
	img.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, OpaqueThreshold + 1})
	img.SetNRGBA(2, 0, color.NRGBA{200, 100, 50, 255})

	mask := opaqueMask(img)
	assert.Equal(t, color.NRGBA{}, mask.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, mask.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{200, 100, 50, 255}, mask.NRGBAAt(2, 0))
}

func TestMapperRGB(t *testing.T) {
	p := Palette{black, white}
	mp := NewMapper(p, MetricRGB)
	assert.Equal(t, p, mp.Palette())
	assert.Equal(t, 0, mp.Index(RGB{10, 10, 10}))
	assert.Equal(t, 1, mp.Index(RGB{240, 250, 230}))
}

func TestMapperLab(t *testing.T) {
	p := Palette{black, white, {255, 0, 0}}
	mp := NewMapper(p, MetricLab)
	assert.Equal(t, 0, mp.Index(RGB{10, 10, 10}))
	assert.Equal(t, 1, mp.Index(white))
	assert.Equal(t, 2, mp.Index(RGB{230, 20, 20}))
	assert.Equal(t, -1, NewMapper(nil, MetricLab).Index(white))
}

func TestParseMetric(t *testing.T) {
	for _, m := range []Metric{MetricRGB, MetricLab} {
		parsed, err := ParseMetric(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseMetric("hsv")
	assert.Error(t, err)
}

func TestDistortion(t *testing.T) {
	mean, std := Distortion([]RGB{black, white}, Palette{black, white})
	assert.Zero(t, mean)
	assert.Zero(t, std)

	mean, std = Distortion([]RGB{{1, 0, 0}, {3, 0, 0}}, Palette{black})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 5.656854, std, 1e-6)

	mean, std = Distortion([]RGB{{2, 0, 0}}, Palette{black})
	assert.InDelta(t, 4.0, mean, 1e-9)
	assert.Zero(t, std)

	mean, _ = Distortion(nil, Palette{black})
	assert.Zero(t, mean)
}
