package scan

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/youruser/duelsim/internal/layout"
	"github.com/youruser/duelsim/internal/ocr"
)

// scriptEngine answers recognitions from a fixed script, then "".
type scriptEngine struct {
	mu      sync.Mutex
	replies []ocr.Result
	calls   int
	sizes   []image.Rectangle
	// gate, when set, blocks each call until a value is received.
	gate chan struct{}
}

func script(texts ...string) *scriptEngine {
	e := &scriptEngine{}
	for _, t := range texts {
		e.replies = append(e.replies, ocr.Result{Text: t, Confidence: 90})
	}
	return e
}

func (e *scriptEngine) Recognize(ctx context.Context, img image.Image, opts ocr.Options) (ocr.Result, error) {
	if e.gate != nil {
		<-e.gate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sizes = append(e.sizes, img.Bounds())
	i := e.calls
	e.calls++
	if i < len(e.replies) {
		return e.replies[i], nil
	}
	return ocr.Result{}, nil
}

func (e *scriptEngine) Close() error { return nil }

func (e *scriptEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func managerFor(e ocr.Engine) *ocr.Manager {
	return ocr.NewManager(func(ocr.Language) (ocr.Engine, error) { return e, nil })
}

func newAnalyzer(t *testing.T, e ocr.Engine) *Analyzer {
	t.Helper()
	p, err := layout.Lookup(layout.Compact)
	require.NoError(t, err)
	m := managerFor(e)
	t.Cleanup(func() { m.Close() })
	return NewAnalyzer(m, p)
}

func blankDeckImage() *image.NRGBA {
	return imaging.New(1000, 1500, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
}
