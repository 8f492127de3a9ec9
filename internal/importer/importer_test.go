package importer

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/duelsim/internal/deck"
	"github.com/youruser/duelsim/internal/layout"
	"github.com/youruser/duelsim/internal/ocr"
	"github.com/youruser/duelsim/internal/scan"
)

type scriptEngine struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (e *scriptEngine) Recognize(ctx context.Context, img image.Image, opts ocr.Options) (ocr.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.calls
	e.calls++
	if i < len(e.replies) {
		return ocr.Result{Text: e.replies[i]}, nil
	}
	return ocr.Result{}, nil
}

func (e *scriptEngine) Close() error { return nil }

func newImporter(t *testing.T, replies ...string) *Importer {
	t.Helper()
	m := ocr.NewManager(func(ocr.Language) (ocr.Engine, error) {
		return &scriptEngine{replies: replies}, nil
	})
	t.Cleanup(func() { m.Close() })
	p, err := layout.Lookup(layout.Compact)
	require.NoError(t, err)
	return New(scan.NewAnalyzer(m, p))
}

func deckImage() image.Image {
	return imaging.New(1000, 1400, color.NRGBA{R: 230, G: 230, B: 235, A: 255})
}

func TestImportMainAndExtra(t *testing.T) {
	im := newImporter(t, "メイン: 40", "EX: 15")

	res, err := im.Import(context.Background(), deckImage(), ocr.Japanese, nil)
	require.NoError(t, err)

	require.NotNil(t, res.Config.MainDeck)
	assert.Equal(t, 40, res.Config.MainDeck.Count)
	assert.Equal(t, 4, res.Config.MainDeck.Rows)
	require.NotNil(t, res.Config.ExtraDeck)
	assert.Equal(t, 15, res.Config.ExtraDeck.Count)
	assert.Equal(t, 2, res.Config.ExtraDeck.Rows)
	assert.Nil(t, res.Config.SideDeck)

	require.Len(t, res.Cards, 55)
	for i := 0; i < 40; i++ {
		assert.Equal(t, deck.ZoneMain, res.Cards[i].Zone)
		assert.Equal(t, i, res.Cards[i].Index)
	}
	for i := 0; i < 15; i++ {
		assert.Equal(t, deck.ZoneExtra, res.Cards[40+i].Zone)
		assert.Equal(t, i, res.Cards[40+i].Index)
	}
	assert.Equal(t, 55, res.Mapping.Len())
	assert.NoError(t, res.Extraction.Err())
}

func TestImportBlankImageFails(t *testing.T) {
	im := newImporter(t)
	_, err := im.Import(context.Background(), deckImage(), ocr.Japanese, nil)
	assert.ErrorIs(t, err, scan.ErrStructureNotDetected)
}

func TestRestoreMatchesImport(t *testing.T) {
	im := newImporter(t, "メイン: 40", "EX: 15")
	img := deckImage()

	res, err := im.Import(context.Background(), img, ocr.Japanese, nil)
	require.NoError(t, err)

	restored, err := Restore(img, res.Config, res.Mapping)
	require.NoError(t, err)
	assert.Equal(t, res.Cards, restored)
}
