package layout

import (
	"image"
	"math"

	"github.com/youruser/duelsim/internal/deck"
)

// Geometry is a profile bound to one image width.
type Geometry struct {
	Profile Profile
	Width   float64
}

func (p Profile) For(width int) Geometry {
	return Geometry{Profile: p, Width: float64(width)}
}

func (g Geometry) px(ratio float64) float64 { return g.Width * ratio }

func round(v float64) int { return int(math.Round(v)) }

// FirstLabelY is where the main deck label is expected.
func (g Geometry) FirstLabelY() int {
	return round(g.px(g.Profile.LabelY))
}

// LabelRect is the OCR window of a section label whose top sits at y.
func (g Geometry) LabelRect(y int) image.Rectangle {
	x := round(g.px(g.Profile.LabelX))
	return image.Rect(x, y, x+round(g.px(g.Profile.LabelWidth)), y+round(g.px(g.Profile.LabelHeight)))
}

// RetryRect nudges r left and up and enlarges it to absorb layout drift.
func (g Geometry) RetryRect(r image.Rectangle) image.Rectangle {
	x := r.Min.X - round(g.px(g.Profile.RetryShiftX))
	y := r.Min.Y - round(g.px(g.Profile.RetryShiftY))
	w := round(float64(r.Dx()) * (1 + g.Profile.RetryGrowX))
	h := round(float64(r.Dy()) * (1 + g.Profile.RetryGrowY))
	return image.Rect(x, y, x+w, y+h)
}

func (g Geometry) CardWidth() float64 { return g.px(g.Profile.CardWidth) }

func (g Geometry) CardHeight() float64 { return g.CardWidth() * deck.CardAspect }

// GridOffset is the distance from a label's Y to the top of its first card row.
func (g Geometry) GridOffset() float64 {
	return g.px(g.Profile.LabelToGrid) + g.px(g.Profile.FirstRowOffset)
}

// NextLabelY places the label of the section following prev, below prev's
// card grid. A wrong prev.Rows shifts every later section.
func (g Geometry) NextLabelY(prev deck.Section) int {
	grid := float64(prev.Rows) * g.CardHeight()
	return round(float64(prev.YPosition) + g.px(g.Profile.LabelToGrid) + grid + g.px(g.Profile.SectionGap))
}

// Configure builds the grid configuration for the given sections.
func (g Geometry) Configure(sections ...deck.Section) *deck.Configuration {
	cfg := &deck.Configuration{
		CardWidth:   g.CardWidth(),
		CardHeight:  g.CardHeight(),
		CardGap:     g.px(g.Profile.CardGap),
		LeftMargin:  g.px(g.Profile.LeftMargin),
		GridOffset:  g.GridOffset(),
		SliceMargin: g.px(g.Profile.SliceMargin),
	}
	for _, s := range sections {
		cfg.SetSection(s)
	}
	return cfg
}
