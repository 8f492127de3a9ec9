package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/youruser/duelsim/internal/deck"
	imagepkg "github.com/youruser/duelsim/internal/image"
	"github.com/youruser/duelsim/internal/layout"
	"github.com/youruser/duelsim/internal/ocr"
)

var (
	ErrInvalidImage         = imagepkg.ErrInvalidImage
	ErrStructureNotDetected = errors.New("deck structure detection failed")
)

// Analyzer locates the main, extra, and side deck labels and reads their
// counts. Sections are detected strictly in that order because each label
// position depends on the previous section's row count.
type Analyzer struct {
	Engines       *ocr.Manager
	Profile       layout.Profile
	MinConfidence float64
}

func NewAnalyzer(engines *ocr.Manager, profile layout.Profile) *Analyzer {
	return &Analyzer{Engines: engines, Profile: profile}
}

// Analyze returns the detected sections in cascade order.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image, lang ocr.Language) ([]deck.Section, error) {
	if err := imagepkg.Validate(img); err != nil {
		return nil, err
	}
	img = imagepkg.Normalize(img)
	lease, err := a.Engines.Acquire(ctx, lang)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	x := NewExtractor(lease)
	x.MinConfidence = a.MinConfidence
	g := a.Profile.For(img.Bounds().Dx())

	var sections []deck.Section
	y := g.FirstLabelY()
	for _, zone := range deck.Zones() {
		if y >= img.Bounds().Dy() {
			break
		}
		s, ok := detectSection(ctx, x, img, g, zone, y, lang)
		if !ok {
			break
		}
		sections = append(sections, s)
		y = g.NextLabelY(s)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrStructureNotDetected
	}
	return sections, nil
}

// Configure analyzes img and builds its grid configuration.
func (a *Analyzer) Configure(ctx context.Context, img image.Image, lang ocr.Language) (*deck.Configuration, error) {
	sections, err := a.Analyze(ctx, img, lang)
	if err != nil {
		return nil, err
	}
	return a.Profile.For(img.Bounds().Dx()).Configure(sections...), nil
}

// detectSection reads the label at labelY, retrying once with a drifted
// window when the first read holds no digits.
func detectSection(ctx context.Context, x *Extractor, img image.Image, g layout.Geometry, zone deck.Zone, labelY int, lang ocr.Language) (deck.Section, bool) {
	rect := g.LabelRect(labelY)
	text := x.ExtractText(ctx, img, rect, lang)
	n, found := ParseCount(text)
	if !found {
		text = x.ExtractText(ctx, img, g.RetryRect(rect), lang)
		n, found = ParseCount(text)
	}
	if !found || !validCount(n) {
		log.Printf("scan: %s section not detected at y=%d (text %q)", zone, labelY, text)
		return deck.Section{}, false
	}
	log.Printf("scan: %s section: %d cards at y=%d", zone, n, labelY)
	return deck.NewSection(zone, n, labelY), true
}

// DetectSection runs one cascade stage against a known upstream section,
// or the first label position when prev is nil.
func (a *Analyzer) DetectSection(ctx context.Context, img image.Image, lang ocr.Language, zone deck.Zone, prev *deck.Section) (deck.Section, error) {
	if err := imagepkg.Validate(img); err != nil {
		return deck.Section{}, err
	}
	img = imagepkg.Normalize(img)
	lease, err := a.Engines.Acquire(ctx, lang)
	if err != nil {
		return deck.Section{}, err
	}
	defer lease.Release()

	x := NewExtractor(lease)
	x.MinConfidence = a.MinConfidence
	g := a.Profile.For(img.Bounds().Dx())
	y := g.FirstLabelY()
	if prev != nil {
		y = g.NextLabelY(*prev)
	}
	s, ok := detectSection(ctx, x, img, g, zone, y, lang)
	if !ok {
		return deck.Section{}, fmt.Errorf("%s: %w", zone, ErrStructureNotDetected)
	}
	return s, nil
}
