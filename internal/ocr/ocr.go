// Package ocr defines the text-recognition engine used to read deck section
// labels, and manages its lifecycle.
package ocr

import (
	"context"
	"fmt"
	"image"
)

type Language string

const (
	Japanese Language = "ja"
	English  Language = "en"
	Chinese  Language = "zh"
	Korean   Language = "ko"
)

type langInfo struct {
	model string
	units string
}

var languages = map[Language]langInfo{
	Japanese: {model: "jpn", units: "枚"},
	English:  {model: "eng", units: "cardsCARDS"},
	Chinese:  {model: "chi_sim", units: "张"},
	Korean:   {model: "kor", units: "장개"},
}

func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if _, ok := languages[l]; !ok {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}

// Model is the tesseract traineddata name for l.
func (l Language) Model() string { return languages[l].model }

// PageSegMode mirrors the tesseract page segmentation modes the pipeline uses.
type PageSegMode int

const (
	SegAuto PageSegMode = iota
	SegSingleLine
)

type Options struct {
	Language    Language
	PageSegMode PageSegMode
	Whitelist   string
	// MinConfidence is a hint (0-100); engines may use it to drop words.
	MinConfidence float64
}

// OptionsFor returns single-line recognition limited to digits, colons, and
// the language's unit glyphs.
func OptionsFor(l Language) Options {
	return Options{
		Language:      l,
		PageSegMode:   SegSingleLine,
		Whitelist:     "0123456789:：" + languages[l].units,
		MinConfidence: 60,
	}
}

type Result struct {
	Text       string
	Confidence float64
}

// Engine recognizes text in an image. Implementations own native resources
// and must be closed.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, opts Options) (Result, error)
	Close() error
}

// Factory builds an engine for one language.
type Factory func(Language) (Engine, error)
