package scan

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/youruser/duelsim/internal/deck"
	"github.com/youruser/duelsim/internal/ocr"
)

var (
	ErrAnalysisInProgress = errors.New("analysis already in progress")
	ErrStaleResult        = errors.New("image replaced during analysis")
	ErrNoImage            = errors.New("no image loaded")
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateRunning
	stateDone
)

// Session guards analysis of the current image: one run at a time, a
// completed run is reused, and results for a replaced image are discarded.
type Session struct {
	analyzer *Analyzer

	mu     sync.Mutex
	img    image.Image
	gen    uint64
	state  sessionState
	result *deck.Configuration
}

func NewSession(a *Analyzer) *Session {
	return &Session{analyzer: a}
}

// Load replaces the current image and returns its generation.
func (s *Session) Load(img image.Image) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	s.gen++
	s.state = stateIdle
	s.result = nil
	return s.gen
}

// Run analyzes the current image once. Later calls return the same
// configuration until a new image is loaded.
func (s *Session) Run(ctx context.Context, lang ocr.Language) (*deck.Configuration, error) {
	s.mu.Lock()
	switch {
	case s.img == nil:
		s.mu.Unlock()
		return nil, ErrNoImage
	case s.state == stateRunning:
		s.mu.Unlock()
		return nil, ErrAnalysisInProgress
	case s.state == stateDone:
		cfg := s.result
		s.mu.Unlock()
		return cfg, nil
	}
	s.state = stateRunning
	gen, img := s.gen, s.img
	s.mu.Unlock()

	cfg, err := s.analyzer.Configure(ctx, img, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil, ErrStaleResult
	}
	if err != nil {
		s.state = stateIdle
		return nil, err
	}
	s.state = stateDone
	s.result = cfg
	return cfg, nil
}
