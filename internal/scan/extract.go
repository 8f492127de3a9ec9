// Package scan reads deck section labels out of a deck export image and
// derives the card grid configuration from them.
package scan

import (
	"context"
	"image"
	"log"

	"github.com/disintegration/imaging"

	imagepkg "github.com/youruser/duelsim/internal/image"
	"github.com/youruser/duelsim/internal/ocr"
)

const (
	DefaultUpscale   = 6
	DefaultMinWidth  = 50
	DefaultMinHeight = 20
)

// Extractor OCRs one rectangular region of an image.
type Extractor struct {
	Engine    ocr.Engine
	Upscale   int
	MinWidth  int
	MinHeight int
	// MinConfidence rejects results scoring below it. Zero accepts any text.
	MinConfidence float64
}

func NewExtractor(e ocr.Engine) *Extractor {
	return &Extractor{
		Engine:    e,
		Upscale:   DefaultUpscale,
		MinWidth:  DefaultMinWidth,
		MinHeight: DefaultMinHeight,
	}
}

// Region clamps r to bounds and grows it to the minimum OCR size. ok is
// false when bounds cannot hold a region of the minimum size.
func (x *Extractor) Region(bounds, r image.Rectangle) (image.Rectangle, bool) {
	r = r.Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	if r.Dx() < x.MinWidth {
		r.Max.X = r.Min.X + x.MinWidth
		if r.Max.X > bounds.Max.X {
			r = r.Sub(image.Pt(r.Max.X-bounds.Max.X, 0))
		}
	}
	if r.Dy() < x.MinHeight {
		r.Max.Y = r.Min.Y + x.MinHeight
		if r.Max.Y > bounds.Max.Y {
			r = r.Sub(image.Pt(0, r.Max.Y-bounds.Max.Y))
		}
	}
	r = r.Intersect(bounds)
	if r.Dx() < x.MinWidth || r.Dy() < x.MinHeight {
		return image.Rectangle{}, false
	}
	return r, true
}

// Prepare crops, upscales, and binarizes the region for recognition.
func (x *Extractor) Prepare(img image.Image, r image.Rectangle) *image.NRGBA {
	crop := imaging.Crop(img, r)
	up := imaging.Resize(crop, r.Dx()*x.Upscale, r.Dy()*x.Upscale, imaging.Lanczos)
	return imagepkg.Binarize(up)
}

// ExtractText returns the text recognized in rect, or "" when the region is
// unusable or the engine fails.
func (x *Extractor) ExtractText(ctx context.Context, img image.Image, rect image.Rectangle, lang ocr.Language) string {
	r, ok := x.Region(img.Bounds(), rect)
	if !ok {
		log.Printf("scan: region %v unusable in %v", rect, img.Bounds())
		return ""
	}
	res, err := x.Engine.Recognize(ctx, x.Prepare(img, r), ocr.OptionsFor(lang))
	if err != nil {
		log.Printf("scan: ocr failed for region %v: %v", r, err)
		return ""
	}
	if x.MinConfidence > 0 && res.Confidence < x.MinConfidence {
		log.Printf("scan: dropping %q at confidence %.1f", res.Text, res.Confidence)
		return ""
	}
	return res.Text
}
