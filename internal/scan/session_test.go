package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/duelsim/internal/ocr"
)

func (s *Session) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

func TestSessionRunWithoutImage(t *testing.T) {
	s := NewSession(newAnalyzer(t, script()))
	_, err := s.Run(context.Background(), ocr.Japanese)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestSessionReusesResult(t *testing.T) {
	e := script("メイン: 40", "EX: 15")
	s := NewSession(newAnalyzer(t, e))
	s.Load(blankDeckImage())

	first, err := s.Run(context.Background(), ocr.Japanese)
	require.NoError(t, err)
	calls := e.Calls()

	second, err := s.Run(context.Background(), ocr.Japanese)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, calls, e.Calls(), "no second analysis")
}

func TestSessionLoadResets(t *testing.T) {
	e := script("メイン: 40", "", "", "メイン: 20")
	s := NewSession(newAnalyzer(t, e))

	g1 := s.Load(blankDeckImage())
	cfg, err := s.Run(context.Background(), ocr.Japanese)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.MainDeck.Count)

	g2 := s.Load(blankDeckImage())
	assert.Greater(t, g2, g1)

	cfg, err = s.Run(context.Background(), ocr.Japanese)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.MainDeck.Count)
}

func TestSessionRejectsConcurrentRun(t *testing.T) {
	e := script("メイン: 40")
	e.gate = make(chan struct{})
	s := NewSession(newAnalyzer(t, e))
	s.Load(blankDeckImage())

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), ocr.Japanese)
		done <- err
	}()
	require.Eventually(t, s.running, time.Second, 5*time.Millisecond)

	_, err := s.Run(context.Background(), ocr.Japanese)
	assert.ErrorIs(t, err, ErrAnalysisInProgress)

	close(e.gate)
	require.NoError(t, <-done)
}

func TestSessionDiscardsStaleResult(t *testing.T) {
	e := script("メイン: 40")
	e.gate = make(chan struct{})
	s := NewSession(newAnalyzer(t, e))
	s.Load(blankDeckImage())

	done := make(chan error, 1)
	go func() {
		_, err := s.Run(context.Background(), ocr.Japanese)
		done <- err
	}()
	require.Eventually(t, s.running, time.Second, 5*time.Millisecond)

	s.Load(blankDeckImage())
	close(e.gate)
	assert.ErrorIs(t, <-done, ErrStaleResult)
	assert.False(t, s.running())
}

func TestSessionErrorReturnsToIdle(t *testing.T) {
	e := script()
	s := NewSession(newAnalyzer(t, e))
	s.Load(blankDeckImage())

	_, err := s.Run(context.Background(), ocr.Japanese)
	require.True(t, errors.Is(err, ErrStructureNotDetected), "%v", err)

	// a failed run may be retried
	before := e.Calls()
	_, err = s.Run(context.Background(), ocr.Japanese)
	assert.ErrorIs(t, err, ErrStructureNotDetected)
	assert.Greater(t, e.Calls(), before)
}
