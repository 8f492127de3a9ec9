package imagepkg

import (
	"image"
	"math"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

// ThresholdOffset separates text from the dominant background luminance.
const ThresholdOffset = 40

func luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// Background estimates the dominant luminance (0-255 scale, bucketed to the
// nearest 10). Ties go to the darker bucket.
func Background(img *image.NRGBA) float64 {
	var hist [27]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+3]
			l := luminance(float64(p[0]), float64(p[1]), float64(p[2]))
			hist[int(math.Round(l/10))]++
		}
	}
	best := 0
	for i, n := range hist {
		if n > hist[best] {
			best = i
		}
	}
	return float64(best * 10)
}

// Binarize maps every pixel to pure black or white. Text always comes out
// dark on a white background, whatever the polarity of the source.
func Binarize(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	bg := Background(src)

	dark := bg < 128
	threshold := bg - ThresholdOffset
	if dark {
		threshold = bg + ThresholdOffset
	}

	g := gift.New(gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
		l := luminance(float64(r0), float64(g0), float64(b0)) * 255
		text := l < threshold
		if dark {
			text = l > threshold
		}
		if text {
			return 0, 0, 0, 1
		}
		return 1, 1, 1, 1
	}))
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}
