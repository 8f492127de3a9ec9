// Package slicer cuts a deck export image into per-card images using the
// grid geometry of a deck.Configuration, and re-links persisted card ids to
// freshly cut images.
package slicer

import (
	"fmt"
	"image"
	"math"

	"github.com/youruser/duelsim/internal/deck"
)

// rowGap is the vertical gap between card rows; exports pack rows tightly.
const rowGap = 0.0

// Rect is a pixel rectangle in source-image coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func toRect(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Position is one card cell of a section.
type Position struct {
	Zone  deck.Zone
	Index int
	Row   int
	Col   int
	Rect  image.Rectangle
}

func round(v float64) int { return int(math.Round(v)) }

// CardRect is the source window of card index in s: the nominal cell
// widened by SliceMargin on both sides. Slicing and re-linking both go
// through here so their rounding can never diverge.
func CardRect(cfg *deck.Configuration, s deck.Section, index int) image.Rectangle {
	row, col := index/deck.CardsPerRow, index%deck.CardsPerRow
	x := cfg.LeftMargin + float64(col)*(cfg.CardWidth+cfg.CardGap)
	y := float64(s.YPosition) + cfg.GridOffset + float64(row)*(cfg.CardHeight+rowGap)
	return image.Rect(
		round(x-cfg.SliceMargin), round(y),
		round(x+cfg.CardWidth+cfg.SliceMargin), round(y+cfg.CardHeight),
	)
}

// checkCardSize rejects card sizes larger than the image itself.
func checkCardSize(b image.Rectangle, cfg *deck.Configuration) error {
	if cfg.CardWidth > float64(b.Dx()) || cfg.CardHeight > float64(b.Dy()) {
		return fmt.Errorf("card size %.1fx%.1f exceeds image %dx%d", cfg.CardWidth, cfg.CardHeight, b.Dx(), b.Dy())
	}
	return nil
}

// OutputSize is the nominal card size every cut is scaled to.
func OutputSize(cfg *deck.Configuration) (int, int) {
	return round(cfg.CardWidth), round(cfg.CardHeight)
}

// Positions enumerates every card cell, zone by zone in row-major order,
// stopping exactly at each section's count.
func Positions(cfg *deck.Configuration) []Position {
	var out []Position
	for _, s := range cfg.Sections() {
		for row := 0; row < s.Rows; row++ {
			for col := 0; col < deck.CardsPerRow; col++ {
				i := row*deck.CardsPerRow + col
				if i >= s.Count {
					break
				}
				out = append(out, Position{Zone: s.Type, Index: i, Row: row, Col: col, Rect: CardRect(cfg, s, i)})
			}
		}
	}
	return out
}
