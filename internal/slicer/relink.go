package slicer

import (
	"fmt"
	"image"
	"log"

	"github.com/youruser/duelsim/internal/deck"
	imagepkg "github.com/youruser/duelsim/internal/image"
)

// Relink regenerates card images for the ids in mapping by replaying the
// slicing geometry of cfg against img. Indices without an id are skipped.
// The result maps card id to PNG data URL.
func Relink(img image.Image, cfg *deck.Configuration, mapping *deck.IDMapping) (map[string]string, error) {
	if err := imagepkg.Validate(img); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("relinking: %w", err)
	}
	if err := checkCardSize(img.Bounds(), cfg); err != nil {
		return nil, fmt.Errorf("relinking: %w", err)
	}
	if mapping == nil {
		return map[string]string{}, nil
	}
	if err := mapping.Validate(cfg); err != nil {
		return nil, fmt.Errorf("relinking: %w", err)
	}
	img = imagepkg.Normalize(img)

	var (
		positions []Position
		ids       []string
	)
	for _, p := range Positions(cfg) {
		if id, ok := mapping.Lookup(p.Zone, p.Index); ok {
			positions = append(positions, p)
			ids = append(ids, id)
		}
	}

	w, h := OutputSize(cfg)
	out := make(map[string]string, len(ids))
	for i, r := range renderAll(img, positions, w, h) {
		if r.err != nil {
			log.Printf("slicer: relink %s card %d: %v", positions[i].Zone, positions[i].Index, r.err)
			continue
		}
		out[ids[i]] = r.url
	}
	return out, nil
}
