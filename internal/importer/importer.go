// Package importer runs the full deck-image import: structure analysis,
// card slicing, and game-card records.
package importer

import (
	"context"
	"image"
	"log"

	"github.com/youruser/duelsim/internal/cards"
	"github.com/youruser/duelsim/internal/deck"
	"github.com/youruser/duelsim/internal/ocr"
	"github.com/youruser/duelsim/internal/scan"
	"github.com/youruser/duelsim/internal/slicer"
)

type Result struct {
	Config     *deck.Configuration `json:"configuration"`
	Cards      []cards.Card        `json:"cards"`
	Mapping    *deck.IDMapping     `json:"mapping"`
	Extraction *slicer.Extraction  `json:"-"`
}

type Importer struct {
	Analyzer *scan.Analyzer
}

func New(a *scan.Analyzer) *Importer {
	return &Importer{Analyzer: a}
}

// Import analyzes img and cuts its cards. existing ids are kept, so a
// re-import of the same deck yields the same card ids.
func (im *Importer) Import(ctx context.Context, img image.Image, lang ocr.Language, existing *deck.IDMapping) (*Result, error) {
	cfg, err := im.Analyzer.Configure(ctx, img, lang)
	if err != nil {
		return nil, err
	}
	return Cut(img, cfg, existing)
}

// Cut slices img with an already known configuration.
func Cut(img image.Image, cfg *deck.Configuration, existing *deck.IDMapping) (*Result, error) {
	ext, err := slicer.Slice(img, cfg, existing)
	if err != nil {
		return nil, err
	}
	if err := ext.Err(); err != nil {
		log.Printf("importer: %d of %d cards without image: %v", countMissing(ext), len(ext.Cards), err)
	}
	return &Result{
		Config:     cfg,
		Cards:      cards.FromExtraction(ext),
		Mapping:    ext.Mapping,
		Extraction: ext,
	}, nil
}

// Restore regenerates card records for a persisted configuration and
// mapping without running OCR.
func Restore(img image.Image, cfg *deck.Configuration, mapping *deck.IDMapping) ([]cards.Card, error) {
	images, err := slicer.Relink(img, cfg, mapping)
	if err != nil {
		return nil, err
	}
	return cards.FromRelink(cfg, mapping, images), nil
}

func countMissing(ext *slicer.Extraction) int {
	n := 0
	for _, c := range ext.Cards {
		if c.ImageURL == "" {
			n++
		}
	}
	return n
}
