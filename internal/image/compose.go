package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	previewMargin  = 24
	previewGap     = 6
	previewZoneGap = 32
	previewPerRow  = 10
)

// ComposePreview lays sliced cards out as a contact sheet, one block per
// zone, ten cards per row. Cells take the size of the first card; empty
// zones are skipped.
func ComposePreview(zones [][]image.Image) image.Image {
	var cell image.Rectangle
	rows := 0
	blocks := 0
	for _, cards := range zones {
		if len(cards) == 0 {
			continue
		}
		if cell.Empty() {
			cell = cards[0].Bounds()
		}
		rows += (len(cards) + previewPerRow - 1) / previewPerRow
		blocks++
	}
	if blocks == 0 {
		return imaging.New(1, 1, color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
	}

	cw, ch := cell.Dx(), cell.Dy()
	w := 2*previewMargin + previewPerRow*cw + (previewPerRow-1)*previewGap
	h := 2*previewMargin + rows*ch + (rows-blocks)*previewGap + (blocks-1)*previewZoneGap
	canvas := imaging.New(w, h, color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})

	y := previewMargin
	for _, cards := range zones {
		if len(cards) == 0 {
			continue
		}
		for i, c := range cards {
			if i > 0 && i%previewPerRow == 0 {
				y += ch + previewGap
			}
			if c.Bounds().Dx() != cw || c.Bounds().Dy() != ch {
				c = imaging.Resize(c, cw, ch, imaging.Lanczos)
			}
			x := previewMargin + (i%previewPerRow)*(cw+previewGap)
			canvas = imaging.Paste(canvas, c, image.Pt(x, y))
		}
		y += ch + previewZoneGap
	}
	return canvas
}
