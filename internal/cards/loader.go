// Package cards builds the game-card records of an imported deck.
package cards

import (
	"github.com/youruser/duelsim/internal/deck"
	"github.com/youruser/duelsim/internal/slicer"
)

// FromExtraction turns a fresh slicing pass into records, zone by zone in
// index order.
func FromExtraction(ext *slicer.Extraction) []Card {
	out := make([]Card, 0, len(ext.Cards))
	for _, c := range ext.Cards {
		out = append(out, Card{ID: c.ID, Zone: c.Zone, Index: c.Index, ImageURL: c.ImageURL})
	}
	return out
}

// FromRelink rebuilds records from a persisted mapping and the images
// regenerated for it. Mapped cards whose image could not be regenerated
// are kept without one.
func FromRelink(cfg *deck.Configuration, mapping *deck.IDMapping, images map[string]string) []Card {
	var out []Card
	for _, s := range cfg.Sections() {
		for i := 0; i < s.Count; i++ {
			id, ok := mapping.Lookup(s.Type, i)
			if !ok {
				continue
			}
			out = append(out, Card{ID: id, Zone: s.Type, Index: i, ImageURL: images[id]})
		}
	}
	return out
}
