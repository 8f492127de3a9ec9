// Package tesseract implements ocr.Engine on top of libtesseract.
package tesseract

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	imagepkg "github.com/youruser/duelsim/internal/image"
	"github.com/youruser/duelsim/internal/ocr"
)

// Engine is an ocr.Engine backed by a single long-lived gosseract client.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
	lang   ocr.Language
}

// New starts a client for lang. tessdata is optional.
func New(lang ocr.Language, tessdata string) (*Engine, error) {
	client := gosseract.NewClient()
	if tessdata != "" {
		client.TessdataPrefix = tessdata
	}
	if err := client.SetLanguage(lang.Model()); err != nil {
		client.Close()
		return nil, fmt.Errorf("tesseract language %s: %w", lang.Model(), err)
	}
	return &Engine{client: client, lang: lang}, nil
}

// Factory adapts New to an ocr.Factory.
func Factory(tessdata string) ocr.Factory {
	return func(l ocr.Language) (ocr.Engine, error) {
		return New(l, tessdata)
	}
}

var segModes = map[ocr.PageSegMode]gosseract.PageSegMode{
	ocr.SegAuto:       gosseract.PSM_AUTO,
	ocr.SegSingleLine: gosseract.PSM_SINGLE_LINE,
}

func (t *Engine) Recognize(ctx context.Context, img image.Image, opts ocr.Options) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	if opts.Language != "" && opts.Language != t.lang {
		return ocr.Result{}, fmt.Errorf("engine is %s, asked for %s", t.lang, opts.Language)
	}
	b, err := imagepkg.EncodePNG(img)
	if err != nil {
		return ocr.Result{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.client.SetPageSegMode(segModes[opts.PageSegMode]); err != nil {
		return ocr.Result{}, err
	}
	if err := t.client.SetWhitelist(opts.Whitelist); err != nil {
		return ocr.Result{}, err
	}
	if err := t.client.SetImageFromBytes(b); err != nil {
		return ocr.Result{}, err
	}
	text, err := t.client.Text()
	if err != nil {
		return ocr.Result{}, err
	}
	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return ocr.Result{Text: strings.TrimSpace(text)}, nil
	}
	return ocr.Result{Text: strings.TrimSpace(text), Confidence: meanConfidence(boxes, opts.MinConfidence)}, nil
}

// meanConfidence averages word confidences; words below floor count as zero.
func meanConfidence(boxes []gosseract.BoundingBox, floor float64) float64 {
	if len(boxes) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range boxes {
		if b.Confidence >= floor {
			sum += b.Confidence
		}
	}
	return sum / float64(len(boxes))
}

func (t *Engine) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
