package slicer

import (
	"fmt"
	"image"
	"log"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/youruser/duelsim/internal/deck"
	imagepkg "github.com/youruser/duelsim/internal/image"
)

// Card is one cut card image. ImageURL is empty when the cut failed.
type Card struct {
	Zone     deck.Zone   `json:"zone"`
	Index    int         `json:"index"`
	Rect     Rect        `json:"rect"`
	ID       string      `json:"id"`
	ImageURL string      `json:"imageUrl"`
	Image    image.Image `json:"-"`
}

type Extraction struct {
	Cards   []Card
	Mapping *deck.IDMapping
	errs    *multierror.Error
}

// Err reports the cards that could not be cut, if any.
func (e *Extraction) Err() error {
	return e.errs.ErrorOrNil()
}

// Zone returns the cards of one zone in index order.
func (e *Extraction) Zone(z deck.Zone) []Card {
	var out []Card
	for _, c := range e.Cards {
		if c.Zone == z {
			out = append(out, c)
		}
	}
	return out
}

// Slice cuts every card of cfg out of img. Ids found in existing are kept;
// every other card gets a new id. A card that fails to cut is logged and
// left without an image rather than aborting the deck.
func Slice(img image.Image, cfg *deck.Configuration, existing *deck.IDMapping) (*Extraction, error) {
	if err := imagepkg.Validate(img); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("slicing: %w", err)
	}
	img = imagepkg.Normalize(img)
	if err := checkCardSize(img.Bounds(), cfg); err != nil {
		return nil, fmt.Errorf("slicing: %w", err)
	}

	positions := Positions(cfg)
	w, h := OutputSize(cfg)
	results := renderAll(img, positions, w, h)

	ext := &Extraction{Mapping: deck.NewIDMapping()}
	for i, p := range positions {
		id, ok := existing.Lookup(p.Zone, p.Index)
		if !ok {
			id = uuid.NewString()
		}
		ext.Mapping.Set(p.Zone, p.Index, id)

		c := Card{Zone: p.Zone, Index: p.Index, Rect: toRect(p.Rect), ID: id}
		if r := results[i]; r.err != nil {
			log.Printf("slicer: %s card %d: %v", p.Zone, p.Index, r.err)
			ext.errs = multierror.Append(ext.errs, fmt.Errorf("%s card %d: %w", p.Zone, p.Index, r.err))
		} else {
			c.Image, c.ImageURL = r.img, r.url
		}
		ext.Cards = append(ext.Cards, c)
	}
	return ext, nil
}
